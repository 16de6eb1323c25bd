package task

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
	"github.com/lucas-albers-lz4/imgtype/pkg/log"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// ErrModelNotFound is returned when the store has no model for a process.
var ErrModelNotFound = errors.New("deployment model not found")

// ModelStore retrieves and persists the deployment model of a transformation process.
type ModelStore interface {
	Get(ctx context.Context, processID uuid.UUID) (*tadm.DeploymentModel, error)
	Update(ctx context.Context, processID uuid.UUID, m *tadm.DeploymentModel) error
}

// FileStore keeps one model document per transformation process in a directory.
type FileStore struct {
	fs     afero.Fs
	dir    string
	format tadm.Format
}

// NewFileStore returns a store reading and writing <dir>/<processID>.<format>.
// An empty format selects YAML.
func NewFileStore(fs afero.Fs, dir string, format tadm.Format) *FileStore {
	if format == "" {
		format = tadm.FormatYAML
	}
	return &FileStore{fs: fs, dir: dir, format: format}
}

// Path returns the document path for processID.
func (s *FileStore) Path(processID uuid.UUID) string {
	return filepath.Join(s.dir, processID.String()+"."+string(s.format))
}

// Get loads the model of processID.
func (s *FileStore) Get(ctx context.Context, processID uuid.UUID) (*tadm.DeploymentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(processID)
	exists, err := fileutil.Exists(s.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "check model %s", path)
	}
	if !exists {
		return nil, errors.Wrapf(ErrModelNotFound, "transformation process %s", processID)
	}
	log.Debug("Loading deployment model", "path", path)
	return tadm.Load(s.fs, path)
}

// Update writes m as the model of processID.
func (s *FileStore) Update(ctx context.Context, processID uuid.UUID, m *tadm.DeploymentModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.TransformationProcessID == "" {
		m.TransformationProcessID = processID.String()
	}
	path := s.Path(processID)
	log.Debug("Saving deployment model", "path", path)
	return tadm.Save(s.fs, path, m)
}
