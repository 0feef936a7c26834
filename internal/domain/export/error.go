package export

import (
	"errors"

	"goqualtrics/internal/model"
)

var (
	ErrNoOutputLocation  = errors.New("output location is not set")
	ErrNoSurveyID        = errors.New("survey id is empty")
	ErrNoSurveyName      = errors.New("survey name is empty")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrJobFailed         = errors.New("platform reported export status 'failed'")
	ErrJobTerminal       = errors.New("export job already finished")
	ErrNoFileID          = errors.New("export job has no file id")
	ErrUnsafeArchive     = errors.New("archive entry escapes output location")
	ErrEmptyArchive      = errors.New("archive contains no artifact")
	ErrUnsafeArtifact    = errors.New("artifact path escapes output location")
)

func jobError(kind error, op string, job *Job, err error) error {
	e := &model.Error{Kind: kind, Op: op, Err: err}
	if job != nil {
		e.JobID = job.ProgressID
	}
	return e
}
