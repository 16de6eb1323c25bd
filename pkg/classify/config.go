package classify

import (
	"fmt"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
	log "github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// IdentifierFile is the on-disk layout of a standalone identifier table file:
//
//	image-identifiers:
//	  database: [postgres, mysql]
//	  message-broker: [rabbitmq, kafka]
type IdentifierFile struct {
	ImageIdentifiers Identifiers `json:"image-identifiers"`
}

// LoadIdentifiers reads and validates identifier tables from a YAML or JSON file.
func LoadIdentifiers(fs afero.Fs, path string) (Identifiers, error) {
	if err := fileutil.CheckDocumentExtension(path); err != nil {
		return Identifiers{}, err
	}

	data, err := fileutil.ReadFile(fs, path)
	if err != nil {
		if fileutil.IsNotExist(err) {
			return Identifiers{}, &ErrIdentifierFileNotExist{Path: path, Err: err}
		}
		return Identifiers{}, err
	}

	var file IdentifierFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return Identifiers{}, &ErrIdentifierFileParse{Path: path, Err: err}
	}

	if err := file.ImageIdentifiers.Validate(); err != nil {
		return Identifiers{}, fmt.Errorf("invalid identifier file '%s': %w", path, err)
	}

	log.Debug("Loaded image identifiers", "path", path,
		"database", len(file.ImageIdentifiers.Database),
		"messageBroker", len(file.ImageIdentifiers.MessageBroker))
	return file.ImageIdentifiers, nil
}

// Validate rejects empty entries and duplicates within a table. An identifier
// present in both tables is allowed, since the database table wins, but it is logged.
func (ids Identifiers) Validate() error {
	if err := validateTable("database", ids.Database); err != nil {
		return err
	}
	if err := validateTable("message-broker", ids.MessageBroker); err != nil {
		return err
	}

	db := toSet(ids.Database)
	for _, id := range ids.MessageBroker {
		if _, ok := db[id]; ok {
			log.Warn("Identifier listed as both database and message broker; database wins", "identifier", id)
		}
	}
	return nil
}

func validateTable(table string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	for i, v := range values {
		if v == "" {
			return fmt.Errorf("%w at index %d in %s table", ErrEmptyIdentifier, i, table)
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%w '%s' in %s table", ErrDuplicateIdentifier, v, table)
		}
		seen[v] = struct{}{}
	}
	return nil
}
