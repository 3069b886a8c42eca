package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/rocketshoes?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			image VARCHAR(512) NOT NULL DEFAULT ''
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stock (
			id BIGINT PRIMARY KEY,
			amount INT NOT NULL
		)`)
	require.NoError(t, err)

	return db
}

func TestMySQLGetProduct(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	_, err := db.ExecContext(ctx, `
		INSERT INTO products (id, title, price, image) VALUES (9001, 'Tênis de Caminhada', 179.90, 'https://cdn.example.com/1.jpg')
		ON DUPLICATE KEY UPDATE title = VALUES(title), price = VALUES(price), image = VALUES(image)`)
	require.NoError(t, err)
	defer db.ExecContext(ctx, `DELETE FROM products WHERE id = 9001`)

	p, err := adapter.GetProduct(ctx, 9001)
	require.NoError(t, err)
	assert.Equal(t, int64(9001), p.ID)
	assert.Equal(t, "Tênis de Caminhada", p.Title)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("179.90")), "price %s", p.Price)
	assert.Equal(t, "https://cdn.example.com/1.jpg", p.Image)
	assert.Zero(t, p.Amount)
}

func TestMySQLGetProduct_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)

	_, err := adapter.GetProduct(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMySQLGetStock(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	_, err := db.ExecContext(ctx, `
		INSERT INTO stock (id, amount) VALUES (9001, 3)
		ON DUPLICATE KEY UPDATE amount = 3`)
	require.NoError(t, err)
	defer db.ExecContext(ctx, `DELETE FROM stock WHERE id = 9001`)

	s, err := adapter.GetStock(ctx, 9001)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Amount)

	_, err = adapter.GetStock(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
