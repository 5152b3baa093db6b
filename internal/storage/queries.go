package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type ItemRow struct {
	ID            string
	Name          string
	QtdType       string
	NumberOf      string
	Options       string
	Quantity      int64
	AlertQuantity int64
	Description   string
}

type LogRow struct {
	ID        string
	CreatedAt string
	Month     int64
	ItemName  string
	Change    string
	Direction string
}

const listItems = `SELECT id, name, qtd_type, number_of, options, quantity, alert_quantity, description
FROM items ORDER BY seq`

func (q *Queries) ListItems(ctx context.Context) ([]ItemRow, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemRow
	for rows.Next() {
		var i ItemRow
		if err := rows.Scan(&i.ID, &i.Name, &i.QtdType, &i.NumberOf, &i.Options, &i.Quantity, &i.AlertQuantity, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertItem = `INSERT INTO items (id, name, qtd_type, number_of, options, quantity, alert_quantity, description)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertItem(ctx context.Context, arg ItemRow) error {
	_, err := q.db.ExecContext(ctx, insertItem,
		arg.ID, arg.Name, arg.QtdType, arg.NumberOf, arg.Options, arg.Quantity, arg.AlertQuantity, arg.Description)
	return err
}

const updateItem = `UPDATE items
SET name = ?, qtd_type = ?, number_of = ?, options = ?, quantity = ?, alert_quantity = ?, description = ?
WHERE id = ?`

func (q *Queries) UpdateItem(ctx context.Context, arg ItemRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateItem,
		arg.Name, arg.QtdType, arg.NumberOf, arg.Options, arg.Quantity, arg.AlertQuantity, arg.Description, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteItem = `DELETE FROM items WHERE id = ?`

func (q *Queries) DeleteItem(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteItem, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAllItems = `DELETE FROM items`

func (q *Queries) DeleteAllItems(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllItems)
	return err
}

const listLogs = `SELECT id, created_at, month, item_name, change, direction FROM logs ORDER BY seq`

const listLogsByMonth = `SELECT id, created_at, month, item_name, change, direction FROM logs
WHERE month = ? ORDER BY seq`

func (q *Queries) ListLogs(ctx context.Context) ([]LogRow, error) {
	return q.queryLogs(ctx, listLogs)
}

func (q *Queries) ListLogsByMonth(ctx context.Context, month int64) ([]LogRow, error) {
	return q.queryLogs(ctx, listLogsByMonth, month)
}

func (q *Queries) queryLogs(ctx context.Context, query string, args ...interface{}) ([]LogRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []LogRow
	for rows.Next() {
		var l LogRow
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Month, &l.ItemName, &l.Change, &l.Direction); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

const insertLog = `INSERT INTO logs (id, created_at, month, item_name, change, direction) VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertLog(ctx context.Context, arg LogRow) error {
	_, err := q.db.ExecContext(ctx, insertLog, arg.ID, arg.CreatedAt, arg.Month, arg.ItemName, arg.Change, arg.Direction)
	return err
}

const deleteLog = `DELETE FROM logs WHERE id = ?`

func (q *Queries) DeleteLog(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteLog, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
