package db

import "testing"

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE a = ? AND b IN (?,?)"

	if got := Rebind(SQLite, q); got != q {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}

	want := "SELECT a FROM t WHERE a = $1 AND b IN ($2,$3)"
	if got := Rebind(Postgres, q); got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(3); got != "?,?,?" {
		t.Fatalf("Placeholders(3) = %q", got)
	}
	if got := Placeholders(0); got != "" {
		t.Fatalf("Placeholders(0) = %q", got)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": SQLite, "sqlite": SQLite, "postgres": Postgres, "PGX": Postgres} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDialect("mongodb"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
