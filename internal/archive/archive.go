// Package archive keeps a compressed on-disk copy of every raw inbound
// response, per study, for forensic recovery. It is an aid next to the
// document store, not a replacement for it: appends buffer in memory and
// reach disk on the next flush.
package archive

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
)

type ArchiverInterface interface {
	Append(studyID string, raw []byte)
	Flush() error
	Close() error
}

type Archive struct {
	mu         sync.Mutex
	dir        string
	pending    map[string][]byte
	compressor CompressorInterface
	logger     providers.Logger
}

func NewArchive(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (ArchiverInterface, error) {
	if err := os.MkdirAll(conf.Archive.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Archive{
		dir:        conf.Archive.Dir,
		pending:    make(map[string][]byte),
		compressor: compressor,
		logger:     logger,
	}, nil
}

func (a *Archive) Append(studyID string, raw []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[studyID] = append(a.pending[studyID], raw...)
	a.pending[studyID] = append(a.pending[studyID], '\n')
}

// Flush writes one zstd frame per study with pending lines. Frames
// concatenate into a valid stream, so each flush is a plain append.
func (a *Archive) Flush() error {
	a.mu.Lock()
	pending := a.pending
	a.pending = make(map[string][]byte)
	a.mu.Unlock()

	var firstErr error
	for studyID, lines := range pending {
		frame, err := a.compressor.Compress(lines)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := a.appendFrame(studyID, frame); err != nil {
			a.logger.Errorf(providers.TypeApp, "Archive flush failed for study '%s': %s", studyID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *Archive) appendFrame(studyID string, frame []byte) error {
	path := filepath.Join(a.dir, studyID+".jsonl.zst")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(frame); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (a *Archive) Close() error {
	return a.Flush()
}
