package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// Formatos de salida soportados.
const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

var _ valuation.Exporter = (*FileExporter)(nil)

// FileExporter escribe el resumen en disco en el formato configurado.
type FileExporter struct {
	path   string
	format string
	log    *logger.Logger
}

// NewFileExporter valida el formato y construye el exportador.
func NewFileExporter(path, format string, log *logger.Logger) (*FileExporter, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXML {
		return nil, fmt.Errorf("formato de salida no soportado: %q", format)
	}
	if path == "" {
		return nil, fmt.Errorf("ruta de salida vacía")
	}
	return &FileExporter{path: path, format: format, log: log}, nil
}

// Export escribe el archivo completo o no lo toca.
func (e *FileExporter) Export(_ context.Context, res *valuation.Result) error {
	err := WriteFileAtomic(e.path, func(w io.Writer) error {
		if e.format == FormatXML {
			return WriteXML(w, res)
		}
		return WriteCSV(w, res.Rows)
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("file", e.path).Str("format", e.format).Int("rows", len(res.Rows)).Msg("resumen exportado")
	return nil
}

// WriteFileAtomic escribe en un temporal del mismo directorio y lo renombra al final,
// de modo que un error nunca deja un archivo de salida parcial.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
