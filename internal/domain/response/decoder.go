package response

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
	"time"

	"goqualtrics/internal/model"

	"golang.org/x/crypto/blake2b"
)

// DefaultHeaderRows - строки метаданных после заголовка (текст вопроса и ImportId)
const DefaultHeaderRows = 2

const DefaultQuestionPrefix = "Q"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder разбирает табличный артефакт выгрузки
type Decoder struct {
	// HeaderRows - сколько строк после строки с именами колонок отбросить
	HeaderRows     int
	QuestionPrefix string
	Comma          rune
}

func NewDecoder() *Decoder {
	return &Decoder{
		HeaderRows:     DefaultHeaderRows,
		QuestionPrefix: DefaultQuestionPrefix,
		Comma:          ',',
	}
}

// Snapshot - неизменяемый результат разбора одного артефакта
type Snapshot struct {
	Columns  []string
	Records  []Record
	Table    *Table
	Digest   string
	Path     string
	LoadedAt time.Time

	index map[string]int
}

// Find ищет ответ по ResponseId
func (s *Snapshot) Find(id string) (Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.Records[i], true
}

func (s *Snapshot) HasColumn(name string) bool {
	return s.Table.Has(name)
}

// DecodeFile разбирает файл артефакта
func (d *Decoder) DecodeFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	snap, err := d.Decode(f)
	if err != nil {
		return nil, err
	}
	snap.Path = path
	return snap, nil
}

// Decode разбирает CSV/TSV выгрузку. Первая строка - имена колонок,
// следующие HeaderRows строк отбрасываются.
func (d *Decoder) Decode(r io.Reader) (*Snapshot, error) {
	const op = "response.decode"

	h, _ := blake2b.New256(nil)
	br := bufio.NewReader(io.TeeReader(r, h))
	if err := skipBOM(br); err != nil {
		return nil, model.Decode(op, err)
	}

	cr := csv.NewReader(br)
	if d.Comma != 0 {
		cr.Comma = d.Comma
	}
	cr.LazyQuotes = true

	columns, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.Decode(op, ErrNoHeader)
	}
	if err != nil {
		return nil, model.Decode(op, err)
	}
	columns = trimColumns(columns)

	headerRows := d.HeaderRows
	if headerRows < 0 {
		headerRows = 0
	}
	for i := 0; i < headerRows; i++ {
		if _, err := cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, model.Decode(op, fmt.Errorf("%w: want %d, got %d", ErrMissingHeaderRows, headerRows, i))
			}
			return nil, model.Decode(op, err)
		}
	}

	idCol := -1
	for i, c := range columns {
		if c == ColumnResponseID {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, model.Decode(op, ErrNoResponseID)
	}

	snap := &Snapshot{
		Columns:  columns,
		LoadedAt: time.Now(),
		index:    make(map[string]int),
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.Decode(op, err)
		}

		rec := newRecord(columns, row, d.QuestionPrefix)
		line, _ := cr.FieldPos(0)
		if rec.ResponseID == "" {
			return nil, model.Decode(op, fmt.Errorf("%w: line %d", ErrEmptyResponseID, line))
		}
		if _, dup := snap.index[rec.ResponseID]; dup {
			return nil, model.Decode(op, fmt.Errorf("%w: %s at line %d", ErrDuplicateID, rec.ResponseID, line))
		}
		snap.index[rec.ResponseID] = len(snap.Records)
		snap.Records = append(snap.Records, rec)
	}

	// хвост, который csv.Reader мог не дочитать
	_, _ = io.Copy(io.Discard, br)
	snap.Digest = digest(h)
	snap.Table = newTable(columns, snap.Records)
	return snap, nil
}

func skipBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return nil
}

func trimColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func digest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
