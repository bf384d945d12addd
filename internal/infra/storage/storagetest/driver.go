// Package storagetest драйвер database/sql для тестов репозиториев.
// Любой запрос возвращает заранее заданные строки или ошибку.
package storagetest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
)

// Result ответ драйвера на любой запрос
type Result struct {
	Columns []string
	Rows    [][]driver.Value
	// Err возвращается вместо строк
	Err error
}

// Open открывает *sql.DB поверх фиксированного ответа и закрывает его по окончании теста
func Open(t testing.TB, res Result) *sql.DB {
	t.Helper()

	db := sql.OpenDB(&connector{res: res})
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type connector struct {
	res Result
}

func (c *connector) Connect(context.Context) (driver.Conn, error) {
	return &conn{res: c.res}, nil
}

func (c *connector) Driver() driver.Driver {
	return fixedDriver{c: c}
}

type fixedDriver struct {
	c *connector
}

func (d fixedDriver) Open(string) (driver.Conn, error) {
	return d.c.Connect(context.Background())
}

type conn struct {
	res Result
}

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return &stmt{res: c.res}, nil
}

func (c *conn) Close() error {
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	return nil, errors.New("storagetest: transactions are not supported")
}

type stmt struct {
	res Result
}

func (s *stmt) Close() error {
	return nil
}

// NumInput -1: число аргументов не проверяется
func (s *stmt) NumInput() int {
	return -1
}

func (s *stmt) Exec([]driver.Value) (driver.Result, error) {
	if s.res.Err != nil {
		return nil, s.res.Err
	}
	return driver.RowsAffected(len(s.res.Rows)), nil
}

func (s *stmt) Query([]driver.Value) (driver.Rows, error) {
	if s.res.Err != nil {
		return nil, s.res.Err
	}
	return &rows{columns: s.res.Columns, data: s.res.Rows}, nil
}

type rows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string {
	return r.columns
}

func (r *rows) Close() error {
	return nil
}

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
