package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-valuacion/internal/domain"
)

const movementsCSV = "ItemNumber,Location,ChangeQTY,ChangeValue,ChangeSource,StockChangeDateTime\n" +
	"D-SAL-LAP,Sharjah Warehouse1,10,500,PO-100,01/05/2025 08:00:00\n" +
	"D-SAL-LAP,Sharjah Warehouse1,-4,0,Sales Order,02/05/2025 08:00:00\n" +
	"D-SAL-LAP,Sharjah Warehouse1,99,99,Imported from file,03/05/2025 08:00:00\n"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"valuacion"}, args...))
	return out.String(), err
}

func TestRun_EscribeResumen(t *testing.T) {
	dir := t.TempDir()
	mov := writeFile(t, dir, "mov.csv", movementsCSV)
	out := filepath.Join(dir, "stock_summary.csv")

	stdout, err := runApp(t, "--log-level", "error", "run", "-m", mov, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total unique SKUs: 1")
	assert.Contains(t, stdout, "Total locations: 1")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"ItemNumber,Location,FinalStockLevel,FinalStockValue,PurchasePrice\n"+
			"D-SAL-LAP,Sharjah Warehouse1,6,300,50\n",
		string(got))
}

func TestRun_ArgumentosPosicionalesYXML(t *testing.T) {
	dir := t.TempDir()
	mov := writeFile(t, dir, "mov.csv", movementsCSV)
	out := filepath.Join(dir, "stock_summary.xml")
	report := filepath.Join(dir, "reporte.pdf")

	_, err := runApp(t, "--log-level", "error", "run", "--format", "xml", "-o", out, "--pdf", report, mov)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), `PurchasePrice="50"`)

	pdfBytes, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestRun_ErrorNoEscribeSalida(t *testing.T) {
	dir := t.TempDir()
	mov := writeFile(t, dir, "mov.csv", movementsCSV+"X,W,uno,1,PO,04/05/2025 08:00:00\n")
	out := filepath.Join(dir, "stock_summary.csv")

	_, err := runApp(t, "--log-level", "error", "run", "-m", mov, "-o", out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no debe existir salida parcial")
}

func TestRun_SinMovimientos(t *testing.T) {
	t.Setenv("MOVEMENTS_FILES", "")
	_, err := runApp(t, "--log-level", "error", "run", "-o", filepath.Join(t.TempDir(), "x.csv"))
	assert.ErrorIs(t, err, domain.ErrNoInput)

	_, err = runApp(t, "--log-level", "error", "run", "-m", filepath.Join(t.TempDir(), "no-existe.csv"))
	assert.ErrorIs(t, err, domain.ErrNoInput)
}

func TestRun_EstrictoDesdeFlag(t *testing.T) {
	dir := t.TempDir()
	mov := writeFile(t, dir, "mov.csv",
		"ItemNumber,Location,ChangeQTY,ChangeValue,ChangeSource,StockChangeDateTime\n"+
			"A,W,2,-10,PO-credit,01/05/2025 08:00:00\n"+
			"A,W,1,1,Count,02/05/2025 08:00:00\n")
	out := filepath.Join(dir, "stock_summary.csv")

	_, err := runApp(t, "--log-level", "error", "run", "--strict", "-m", mov, "-o", out)
	assert.ErrorIs(t, err, domain.ErrNegativePurchasePrice)

	_, err = runApp(t, "--log-level", "error", "run", "-m", mov, "-o", out)
	assert.NoError(t, err)
}

func TestRun_DBSinConfiguracion(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	dir := t.TempDir()
	mov := writeFile(t, dir, "mov.csv", movementsCSV)

	_, err := runApp(t, "--log-level", "error", "run", "--db", "-m", mov, "-o", filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
