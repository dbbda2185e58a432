package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/bbslate/pkg/htmlimport"
	"github.com/athapong/bbslate/pkg/slate"
	"github.com/athapong/bbslate/pkg/store"
	"github.com/athapong/bbslate/pkg/transducer"
)

const (
	directionDeserialize = "deserialize"
	directionSerialize   = "serialize"
)

var inputExtensions = map[string]map[string]bool{
	directionDeserialize: {".bbcode": true, ".txt": true, ".html": true, ".htm": true},
	directionSerialize:   {".json": true},
}

// batch converts every supported file under inputDir, mirroring the
// directory layout in outputDir
type batch struct {
	transducer *transducer.Transducer
	logger     logrus.FieldLogger
	inputDir   string
	outputDir  string
	direction  string
	nodeType   string
	separator  string
}

// run returns the number of files converted. A file that fails to convert
// is logged and skipped.
func (b *batch) run(ctx context.Context) (int, error) {
	if _, ok := inputExtensions[b.direction]; !ok {
		return 0, errors.Errorf("unknown direction %q", b.direction)
	}

	files, err := b.readInputFiles()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read input directory")
	}
	if len(files) == 0 {
		return 0, errors.New("no input files found")
	}

	b.logger.Infof("Processing %d input files...", len(files))

	converted := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return converted, err
		}

		var err error
		if b.direction == directionDeserialize {
			err = b.deserializeFile(ctx, file)
		} else {
			err = b.serializeFile(ctx, file)
		}
		if err != nil {
			b.logger.WithField("file", file).Errorf("Failed to convert: %v", err)
			continue
		}
		converted++
	}

	return converted, nil
}

func (b *batch) deserializeFile(ctx context.Context, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var value *slate.Value
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html", ".htm":
		value, err = htmlimport.ImportString(string(content))
	default:
		value, err = b.transducer.Deserialize(string(content), transducer.WithType(b.nodeType))
	}
	if err != nil {
		return err
	}

	out := b.outputPath(file, ".json")
	if err := store.NewJSONValueStore(out).StoreValue(ctx, value); err != nil {
		return err
	}
	b.logger.WithField("file", file).Debugf("Wrote %s", out)
	return nil
}

func (b *batch) serializeFile(ctx context.Context, file string) error {
	value, err := store.NewJSONValueStore(file).LoadValue(ctx)
	if err != nil {
		return err
	}

	markup, err := b.transducer.Serialize(value, transducer.WithSeparator(b.separator))
	if err != nil {
		return err
	}

	out := b.outputPath(file, ".bbcode")
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(markup+"\n"), 0644); err != nil {
		return err
	}
	b.logger.WithField("file", file).Debugf("Wrote %s", out)
	return nil
}

func (b *batch) outputPath(file, ext string) string {
	rel, err := filepath.Rel(b.inputDir, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return filepath.Join(b.outputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}

// readInputFiles lists the files under inputDir the direction can convert
func (b *batch) readInputFiles() ([]string, error) {
	supportedExtensions := inputExtensions[b.direction]

	var files []string
	err := filepath.Walk(b.inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			ext := strings.ToLower(filepath.Ext(path))
			if supportedExtensions[ext] {
				files = append(files, path)
			}
		}
		return nil
	})

	return files, err
}
