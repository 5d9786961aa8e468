package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fleetCSV = "Carro,Grupo,Motor,Câmbio,Preço Baixa,Preço Alta,Disponibilidade\n" +
	"Jeep Renegade,F,1.3 Turbo,Automático,150,220,Disponível\n" +
	"Fiat Mobi,A,1.0,Manual,\"R$ 49,90\",\"R$ 89,90\",Isca\n"

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "frota.csv")
	require.NoError(t, os.WriteFile(path, []byte(fleetCSV), 0o644))
	t.Setenv("LOCADORA_LISTINGS_URL", "file://"+path)
	t.Setenv("LOCADORA_DB_DRIVER", "memory")
	t.Setenv("LOCADORA_LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "quote",
		"--vehicle", "Jeep Renegade",
		"--pickup", "01/03/2025", "--pickup-time", "10:00",
		"--return", "04/03/2025", "--return-time", "09:00",
		"--location", "aeroporto",
		"--customer", "Ana",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Assunto: Orçamento de Locação - Jeep Renegade")
	assert.Contains(t, out, "Olá, Ana!")
	assert.Contains(t, out, "TOTAL: R$ 530,00")
}

func TestQuoteCommand_InvalidRange(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "quote", "--vehicle", "Jeep Renegade", "--pickup", "04/03/2025", "--return", "01/03/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "return must be after pickup")
}

func TestQuoteCommand_RequiresFlags(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "quote", "--vehicle", "Jeep Renegade")
	require.Error(t, err)
}

func TestListingsCommand(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "listings")
	require.NoError(t, err)
	assert.Contains(t, out, "VEÍCULO")
	assert.Contains(t, out, "Jeep Renegade")
	assert.Contains(t, out, "R$ 49,90")
	assert.Contains(t, out, "isca")
}

func TestMigrateCommand_RejectsMemory(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL schema")
}

func TestMigrateCommand_SQLite(t *testing.T) {
	setupEnv(t)
	t.Setenv("LOCADORA_DB_DRIVER", "sqlite")
	t.Setenv("LOCADORA_DB_DSN", filepath.Join(t.TempDir(), "locadora.db"))
	out, err := execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "schema at version 2")
}

func TestLoadApp_ResolvesZoneAndCeiling(t *testing.T) {
	setupEnv(t)
	t.Setenv("LOCADORA_TIMEZONE", "America/Manaus")
	t.Setenv("LOCADORA_LEAD_RATE_CEILING", "60")

	a, err := loadApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "America/Manaus", a.loc.String())
	assert.Equal(t, "60", a.ceiling.String())
}

func TestListingsCommand_PriceCeiling(t *testing.T) {
	setupEnv(t)
	t.Setenv("LOCADORA_LEAD_RATE_CEILING", "200")
	out, err := execute(t, "listings")
	require.NoError(t, err)

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Jeep Renegade") {
			assert.True(t, strings.HasSuffix(strings.TrimSpace(line), "isca"), line)
			return
		}
	}
	t.Fatalf("Jeep Renegade missing from output:\n%s", out)
}
