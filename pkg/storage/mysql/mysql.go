package mysql

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/physiocapture/physiocapture-backend/config"

	_ "github.com/go-sql-driver/mysql"
)

var (
	db   *sql.DB
	once sync.Once
)

// Connect opens the MySQL connection pool. Credentials come from .env via
// config. parseTime and the canonical location keep every DATETIME scan in
// the clinic timezone.
func Connect() *sql.DB {
	once.Do(func() {
		cfg := config.LoadConfig()
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			url.QueryEscape(cfg.Timezone))

		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}

		if err = db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		log.Println("Connected to MySQL.")
	})

	return db
}

// GetDB returns the already established connection pool.
func GetDB() *sql.DB {
	return db
}
