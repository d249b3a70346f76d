package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/config"
	"github.com/upper/db/v4"
	upperMysql "github.com/upper/db/v4/adapter/mysql"
	"github.com/upper/db/v4/adapter/postgresql"
)

type SQLDB struct {
	*GroupDB
	*PostDB
	*CommentDB
	*FollowDB
	*UserDB
	sess  db.Session
	sqlDB *sql.DB
}

var _ appDb.Database = (*SQLDB)(nil)

func GetDatabase(cfg *config.Config) (*SQLDB, error) {
	switch cfg.StorageType {
	case config.StorageTypeMySQL:
		return openMySQL(cfg)
	case config.StorageTypePostgres:
		return openPostgres(cfg)
	default:
		return nil, fmt.Errorf("sqlstore does not support storage type %v", cfg.StorageType)
	}
}

func MySQLDSN(dbCfg *config.DBConfig) string {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = dbCfg.User
	mysqlCfg.Passwd = dbCfg.Pass
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = dbCfg.Host
	mysqlCfg.DBName = dbCfg.Name
	mysqlCfg.ParseTime = true
	mysqlCfg.Loc = time.UTC
	if dbCfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	return mysqlCfg.FormatDSN()
}

func openMySQL(cfg *config.Config) (*SQLDB, error) {
	sqlDB, err := sql.Open("mysql", MySQLDSN(&cfg.DB))
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, &cfg.DB)

	sess, err := upperMysql.New(sqlDB)
	if err != nil {
		return nil, err
	}
	return newSQLDB(sess, sqlDB), nil
}

func openPostgres(cfg *config.Config) (*SQLDB, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, &cfg.DB)

	sess, err := postgresql.New(sqlDB)
	if err != nil {
		return nil, err
	}
	return newSQLDB(sess, sqlDB), nil
}

func configurePool(sqlDB *sql.DB, dbCfg *config.DBConfig) {
	sqlDB.SetMaxIdleConns(dbCfg.MaxConns)
	sqlDB.SetMaxOpenConns(dbCfg.MaxConns)
	sqlDB.SetConnMaxIdleTime(0)
}

func newSQLDB(sess db.Session, sqlDB *sql.DB) *SQLDB {
	return &SQLDB{
		GroupDB:   getGroupDB(sess),
		PostDB:    getPostDB(sess),
		CommentDB: getCommentDB(sess),
		FollowDB:  getFollowDB(sess),
		UserDB:    getUserDB(sess),
		sess:      sess,
		sqlDB:     sqlDB,
	}
}

func (sdb *SQLDB) GetSQLDB() *sql.DB {
	return sdb.sqlDB
}

func (sdb *SQLDB) Close() error {
	return sdb.sess.Close()
}
