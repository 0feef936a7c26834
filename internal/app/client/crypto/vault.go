package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	vaultVersion = 1

	kdfArgon2  = "argon2id"
	kdfKeyFile = "keyfile"

	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	keyLength     = 32 // AES-256
	saltLength    = 16
)

var (
	ErrNoToken        = errors.New("токен не сохранен")
	ErrWrongPassword  = errors.New("неверная парольная фраза")
	ErrNeedPassphrase = errors.New("токен защищен парольной фразой")
)

// sealedToken - содержимое файла токена
type sealedToken struct {
	Version   int       `json:"version"`
	KDF       string    `json:"kdf"`
	Salt      string    `json:"salt,omitempty"`
	Sealed    string    `json:"sealed"`
	BaseURL   string    `json:"base_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Vault хранит API токен зашифрованным (AES-GCM).
// Ключ выводится argon2id из парольной фразы, а без нее берется из
// локального файла ключа с правами 0600.
type Vault struct {
	path    string
	keyPath string
	mu      sync.Mutex
}

func NewVault(path string) *Vault {
	return &Vault{
		path:    path,
		keyPath: path + ".key",
	}
}

// Save шифрует токен; baseURL сохраняется рядом и участвует в AAD
func (v *Vault) Save(token, baseURL, passphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := sealedToken{
		Version:   vaultVersion,
		BaseURL:   baseURL,
		CreatedAt: time.Now().UTC(),
	}

	var key []byte
	if passphrase != "" {
		salt, err := randomBytes(saltLength)
		if err != nil {
			return err
		}
		st.KDF = kdfArgon2
		st.Salt = base64.StdEncoding.EncodeToString(salt)
		key = deriveKey(passphrase, salt)
	} else {
		k, err := v.localKey(true)
		if err != nil {
			return err
		}
		st.KDF = kdfKeyFile
		key = k
	}
	defer clearMemory(key)

	sealed, err := seal(key, []byte(token), []byte(baseURL))
	if err != nil {
		return err
	}
	st.Sealed = base64.StdEncoding.EncodeToString(sealed)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации токена: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}
	if err := os.WriteFile(v.path, data, 0o600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

// Load расшифровывает токен и возвращает его вместе с base URL
func (v *Vault) Load(passphrase string) (token, baseURL string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", ErrNoToken
		}
		return "", "", fmt.Errorf("ошибка чтения токена: %w", err)
	}

	var st sealedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return "", "", fmt.Errorf("поврежденный файл токена: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(st.Sealed)
	if err != nil {
		return "", "", fmt.Errorf("поврежденный файл токена: %w", err)
	}

	var key []byte
	switch st.KDF {
	case kdfArgon2:
		if passphrase == "" {
			return "", "", ErrNeedPassphrase
		}
		salt, err := base64.StdEncoding.DecodeString(st.Salt)
		if err != nil {
			return "", "", fmt.Errorf("поврежденная соль: %w", err)
		}
		key = deriveKey(passphrase, salt)
	case kdfKeyFile:
		key, err = v.localKey(false)
		if err != nil {
			return "", "", err
		}
	default:
		return "", "", fmt.Errorf("неизвестный kdf: %q", st.KDF)
	}
	defer clearMemory(key)

	plain, err := open(key, sealed, []byte(st.BaseURL))
	if err != nil {
		if st.KDF == kdfArgon2 {
			return "", "", ErrWrongPassword
		}
		return "", "", err
	}
	return string(plain), st.BaseURL, nil
}

// Clear удаляет токен и локальный ключ
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, p := range []string{v.path, v.keyPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("ошибка удаления %s: %w", p, err)
		}
	}
	return nil
}

func (v *Vault) localKey(create bool) ([]byte, error) {
	key, err := os.ReadFile(v.keyPath)
	if err == nil {
		if len(key) != keyLength {
			return nil, fmt.Errorf("локальный ключ поврежден")
		}
		return key, nil
	}
	if !os.IsNotExist(err) || !create {
		return nil, fmt.Errorf("ошибка чтения локального ключа: %w", err)
	}

	key, err = randomBytes(keyLength)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(v.keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории: %w", err)
	}
	if err := os.WriteFile(v.keyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("ошибка сохранения локального ключа: %w", err)
	}
	return key, nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, keyLength)
}

func seal(key, plaintext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce, err := randomBytes(gcm.NonceSize())
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

func open(key, ciphertext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	n := gcm.NonceSize()
	if len(ciphertext) < n {
		return nil, fmt.Errorf("шифротекст слишком короткий")
	}
	plain, err := gcm.Open(nil, ciphertext[:n], ciphertext[n:], aad)
	if err != nil {
		return nil, fmt.Errorf("ошибка расшифровки: %w", err)
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}
	return gcm, nil
}

func randomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// clearMemory затирает ключ нулями
func clearMemory(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
