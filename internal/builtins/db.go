package builtins

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"clock/internal/runtime"
)

// connManager tracks open database handles by a caller-chosen connection
// name, the same shape as the teacher's DBManager but scoped down to the
// operations Clock scripts can reach: connect, execute, query, close.
type connManager struct {
	mu    sync.RWMutex
	conns map[string]*sql.DB
}

var dbManager = &connManager{conns: make(map[string]*sql.DB)}

var driverByType = map[string]string{
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"mysql":      "mysql",
	"mssql":      "sqlserver",
	"sqlserver":  "sqlserver",
}

func (m *connManager) connect(id, dbType, dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.conns[id]; exists {
		return fmt.Errorf("connection %q already exists", id)
	}
	driver, ok := driverByType[dbType]
	if !ok {
		return fmt.Errorf("unsupported database type %q", dbType)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return errors.Wrap(err, "open connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return errors.Wrap(err, "ping connection")
	}
	m.conns[id] = db
	return nil
}

func (m *connManager) get(id string) (*sql.DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	db, ok := m.conns[id]
	if !ok {
		return nil, fmt.Errorf("connection %q not found", id)
	}
	return db, nil
}

func (m *connManager) close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.conns[id]
	if !ok {
		return fmt.Errorf("connection %q not found", id)
	}
	delete(m.conns, id)
	return db.Close()
}

// dbConnect implements `db_connect(id, type, dsn)`.
func dbConnect(args []runtime.Value) runtime.Value {
	id, dbType, dsn, ok := stringArgs3(args, "db_connect")
	if !ok {
		return runtime.Null
	}
	if err := dbManager.connect(id, dbType, dsn); err != nil {
		reportBuiltinError("db_connect", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

// dbClose implements `db_close(id)`.
func dbClose(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("db_close", fmt.Errorf("expects 1 string argument"))
		return runtime.Bool(false)
	}
	if err := dbManager.close(args[0].Str); err != nil {
		reportBuiltinError("db_close", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

// dbExecute implements `db_execute(id, query, ...args)`, returning the
// number of affected rows as an Int, or Null on failure.
func dbExecute(args []runtime.Value) runtime.Value {
	if len(args) < 2 || args[0].Kind != runtime.StringKind || args[1].Kind != runtime.StringKind {
		reportBuiltinError("db_execute", fmt.Errorf("expects (id, query, ...args)"))
		return runtime.Null
	}
	db, err := dbManager.get(args[0].Str)
	if err != nil {
		reportBuiltinError("db_execute", err)
		return runtime.Null
	}
	result, err := db.Exec(args[1].Str, toSQLArgs(args[2:])...)
	if err != nil {
		reportBuiltinError("db_execute", errors.Wrap(err, "exec"))
		return runtime.Null
	}
	affected, err := result.RowsAffected()
	if err != nil {
		reportBuiltinError("db_execute", err)
		return runtime.Null
	}
	return runtime.Int(affected)
}

// dbQuery implements `db_query(id, query, ...args)`, returning an array of
// rows, each row itself an array of stringified column values — Clock has
// no map/object value, so this is the closest shape its Array can carry.
func dbQuery(args []runtime.Value) runtime.Value {
	if len(args) < 2 || args[0].Kind != runtime.StringKind || args[1].Kind != runtime.StringKind {
		reportBuiltinError("db_query", fmt.Errorf("expects (id, query, ...args)"))
		return runtime.Null
	}
	db, err := dbManager.get(args[0].Str)
	if err != nil {
		reportBuiltinError("db_query", err)
		return runtime.Null
	}
	rows, err := db.Query(args[1].Str, toSQLArgs(args[2:])...)
	if err != nil {
		reportBuiltinError("db_query", errors.Wrap(err, "query"))
		return runtime.Null
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		reportBuiltinError("db_query", err)
		return runtime.Null
	}

	var out []runtime.Value
	scanTargets := make([]interface{}, len(cols))
	values := make([]interface{}, len(cols))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			reportBuiltinError("db_query", err)
			return runtime.Null
		}
		row := make([]runtime.Value, len(cols))
		for i, v := range values {
			row[i] = runtime.Str(cellToString(v))
		}
		out = append(out, runtime.Array(row))
	}
	return runtime.Array(out)
}

func cellToString(v interface{}) string {
	switch b := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(b)
	default:
		return fmt.Sprintf("%v", b)
	}
}

func toSQLArgs(vals []runtime.Value) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		switch v.Kind {
		case runtime.IntKind:
			out[i] = v.Int
		case runtime.FloatKind:
			out[i] = v.Flt
		case runtime.BoolKind:
			out[i] = v.Bool
		case runtime.StringKind:
			out[i] = v.Str
		default:
			out[i] = v.String()
		}
	}
	return out
}

func stringArgs3(args []runtime.Value, name string) (a, b, c string, ok bool) {
	if len(args) != 3 || args[0].Kind != runtime.StringKind || args[1].Kind != runtime.StringKind || args[2].Kind != runtime.StringKind {
		reportBuiltinError(name, fmt.Errorf("expects 3 string arguments"))
		return "", "", "", false
	}
	return args[0].Str, args[1].Str, args[2].Str, true
}
