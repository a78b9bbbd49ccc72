package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/releve/internal/accounts"
	"github.com/cleared-dev/releve/internal/commands"
	"github.com/cleared-dev/releve/internal/config"
	"github.com/cleared-dev/releve/internal/importer"
	"github.com/cleared-dev/releve/internal/importlog"
	"github.com/cleared-dev/releve/internal/ledger"
)

const testdata = "../../testdata"

func runReleve(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func fixture(name string) string {
	return filepath.Join(testdata, name)
}

// initWorkspace creates a workspace owned by alice and returns its config path.
func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runReleve(t, "init", dir, "--owner", "alice")
	require.NoError(t, err)
	return filepath.Join(dir, config.FileName)
}

func copyFixture(t *testing.T, name, dir string) {
	t.Helper()
	data, err := os.ReadFile(fixture(name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := runReleve(t, "init", dir, "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized releve workspace")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Owner)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.NotEmpty(t, cfg.Store.LabelKey)
	require.NoError(t, cfg.Validate())

	for _, d := range []string{"logs", "statements"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "*.db")
}

func TestInit_FreshKeyEachTime(t *testing.T) {
	a, err := config.Load(initWorkspace(t))
	require.NoError(t, err)
	b, err := config.Load(initWorkspace(t))
	require.NoError(t, err)
	assert.NotEqual(t, a.Store.LabelKey, b.Store.LabelKey)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runReleve(t, "init", dir)
	require.NoError(t, err)

	_, err = runReleve(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runReleve(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		file string
		args []string
		want string
	}{
		{"credit_agricole.csv", nil, "credit-agricole\tCrédit Agricole\tutf-8"},
		{"caisse_epargne.csv", nil, "caisse-epargne\tCaisse d'Epargne\tutf-8"},
		{"credit_mutuel.csv", nil, "credit-mutuel\tCrédit Mutuel\tutf-8"},
		{"shine.txt", []string{"--kind", "document"}, "shine\tShine\textracted"},
		{"qonto.txt", []string{"--kind", "document"}, "qonto\tQonto\textracted"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			out, err := runReleve(t, append([]string{"detect", fixture(tt.file)}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestDetect_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello;world\n"), 0o644))

	_, err := runReleve(t, "detect", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrUnsupported)
}

func TestDetect_BadKind(t *testing.T) {
	_, err := runReleve(t, "detect", fixture("credit_agricole.csv"), "--kind", "spreadsheet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestParse_JSON(t *testing.T) {
	out, err := runReleve(t, "parse", fixture("credit_agricole.csv"))
	require.NoError(t, err)

	var res struct {
		Success      bool   `json:"success"`
		BankID       string `json:"bank_id"`
		Skipped      int    `json:"skipped"`
		Transactions []struct {
			Date        string `json:"date"`
			Label       string `json:"label"`
			Amount      string `json:"amount"`
			Fingerprint string `json:"fingerprint"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "credit-agricole", res.BankID)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Transactions, 5)
	for _, txn := range res.Transactions {
		assert.Len(t, txn.Fingerprint, 64)
		assert.NotEmpty(t, txn.Label)
	}
}

func TestParse_CSV(t *testing.T) {
	out, err := runReleve(t, "parse", fixture("credit_mutuel.csv"), "--format", "csv")
	require.NoError(t, err)

	txns, err := ledger.ReadTransactions(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, txns, 3)
	assert.True(t, strings.HasPrefix(out, ledger.Header))
}

func TestParse_DocumentAsText(t *testing.T) {
	out, err := runReleve(t, "parse", fixture("shine.txt"), "--kind", "document")
	require.NoError(t, err)
	assert.Contains(t, out, `"bank_id": "shine"`)
}

func TestParse_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello;world\n"), 0o644))

	out, err := runReleve(t, "parse", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrUnsupported)
	assert.Contains(t, out, `"success": false`)
	assert.Contains(t, out, `"transactions": []`)
}

func TestParse_BadFormat(t *testing.T) {
	_, err := runReleve(t, "parse", fixture("credit_mutuel.csv"), "--format", "xml")
	require.Error(t, err)
}

func TestImport_Idempotent(t *testing.T) {
	cfgPath := initWorkspace(t)

	out, err := runReleve(t, "import", "--config", cfgPath, fixture("credit_agricole.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "credit_agricole.csv\tcredit-agricole\tinserted=5 duplicates=0 skipped=1")

	out, err = runReleve(t, "import", "--config", cfgPath, fixture("credit_agricole.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "inserted=0 duplicates=5")

	entries, err := importlog.Read(filepath.Join(filepath.Dir(cfgPath), "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Owner)
	assert.Equal(t, 5, entries[0].Inserted)
	assert.Equal(t, 5, entries[1].Duplicates)

	_, err = os.Stat(filepath.Join(filepath.Dir(cfgPath), "releve.db"))
	assert.NoError(t, err, "sqlite database lives next to the config")
}

func TestImport_OwnerFlagIsolates(t *testing.T) {
	cfgPath := initWorkspace(t)

	_, err := runReleve(t, "import", "--config", cfgPath, fixture("credit_mutuel.csv"))
	require.NoError(t, err)

	out, err := runReleve(t, "import", "--config", cfgPath, "--owner", "bob", fixture("credit_mutuel.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "inserted=3 duplicates=0")
}

func TestImport_DryRun(t *testing.T) {
	cfgPath := initWorkspace(t)
	dir := filepath.Dir(cfgPath)

	out, err := runReleve(t, "import", "--config", cfgPath, "--dry-run", fixture("caisse_epargne.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "inserted=3")

	_, err = os.Stat(filepath.Join(dir, "releve.db"))
	assert.True(t, os.IsNotExist(err), "dry run must not create the database")
	entries, err := importlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImport_DirectoryWithArchive(t *testing.T) {
	cfgPath := initWorkspace(t)
	stmts := filepath.Join(filepath.Dir(cfgPath), "statements")
	copyFixture(t, "credit_agricole.csv", stmts)
	copyFixture(t, "credit_mutuel.csv", stmts)

	out, err := runReleve(t, "import", "--config", cfgPath, "--archive", "--workers", "2", stmts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "credit_agricole.csv\t"), "results follow scan order")
	assert.True(t, strings.HasPrefix(lines[1], "credit_mutuel.csv\t"))

	files, err := importer.Scan(stmts)
	require.NoError(t, err)
	assert.Empty(t, files, "imported statements are archived")
	for _, name := range []string{"credit_agricole.csv", "credit_mutuel.csv"} {
		_, err := os.Stat(filepath.Join(stmts, "processed", name))
		assert.NoError(t, err)
	}
}

func TestImport_PartialFailure(t *testing.T) {
	cfgPath := initWorkspace(t)
	bad := filepath.Join(t.TempDir(), "notes.csv")
	require.NoError(t, os.WriteFile(bad, []byte("hello;world\n"), 0o644))

	out, err := runReleve(t, "import", "--config", cfgPath, bad, fixture("credit_mutuel.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 statements failed")
	assert.Contains(t, out, "notes.csv\tFAILED")
	assert.Contains(t, out, "credit_mutuel.csv\tcredit-mutuel\tinserted=3")

	entries, err := importlog.Read(filepath.Join(filepath.Dir(cfgPath), "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].Error)
	assert.Empty(t, entries[1].Error)
}

func TestImport_RequiresOwner(t *testing.T) {
	dir := t.TempDir()
	_, err := runReleve(t, "init", dir)
	require.NoError(t, err)

	_, err = runReleve(t, "import", "--config", filepath.Join(dir, config.FileName), fixture("credit_mutuel.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner is required")
}

func TestImport_MissingConfig(t *testing.T) {
	_, err := runReleve(t, "import", "--config", filepath.Join(t.TempDir(), "nope.yaml"), fixture("credit_mutuel.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAccounts_ListsImported(t *testing.T) {
	cfgPath := initWorkspace(t)
	_, err := runReleve(t, "import", "--config", cfgPath, fixture("credit_mutuel.csv"))
	require.NoError(t, err)

	out, err := runReleve(t, "accounts", "--config", cfgPath)
	require.NoError(t, err)

	accts, err := accounts.ReadAccounts(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, accts, 2)
	for _, a := range accts {
		assert.Equal(t, "credit-mutuel", a.BankID)
		assert.NotEmpty(t, a.ID)
		require.NotNil(t, a.KnownBalance)
	}
}

func TestExport_RoundTripsThroughLedger(t *testing.T) {
	cfgPath := initWorkspace(t)
	_, err := runReleve(t, "import", "--config", cfgPath, fixture("caisse_epargne.csv"), fixture("credit_mutuel.csv"))
	require.NoError(t, err)

	out, err := runReleve(t, "export", "--config", cfgPath)
	require.NoError(t, err)

	txns, err := ledger.ReadTransactions(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, txns, 6)
	for i := 1; i < len(txns); i++ {
		assert.False(t, txns[i].Date.Before(txns[i-1].Date), "export is sorted by date")
	}
	assert.Empty(t, ledger.Validate(txns))

	out, err = runReleve(t, "export", "--config", cfgPath, "--owner", "bob")
	require.NoError(t, err)
	assert.Equal(t, ledger.Header, strings.TrimSpace(out))
}
