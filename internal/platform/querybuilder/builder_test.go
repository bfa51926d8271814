package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("payload").
		From("recap_cache").
		Where(Eq("cache_key", "recap:stats:2025:1003"), Expr("expires_at > now()")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT payload FROM recap_cache WHERE cache_key = $1 AND expires_at > now()"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "recap:stats:2025:1003" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestExprRewritesPlaceholders(t *testing.T) {
	query, args, err := Select("payload").
		From("recap_cache").
		Where(Eq("cache_key", "k"), Expr("expires_at > ?", "2026-01-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT payload FROM recap_cache WHERE cache_key = $1 AND expires_at > $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "2026-01-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("recap_cache").
		Columns("cache_key", "payload").
		Values("k1", "{}").
		Suffix("ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO recap_cache (cache_key, payload) VALUES ($1, $2) ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "k1" || args[1] != "{}" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RejectsColumnValueMismatch(t *testing.T) {
	if _, _, err := InsertInto("recap_cache").Columns("cache_key", "payload").Values("k1").ToSQL(); err == nil {
		t.Fatal("expected an error for a short row")
	}
}
