package config

// DefaultConfigYAML 内置默认配置，外部配置文件和环境变量可覆盖
var DefaultConfigYAML = []byte(`server:
  port: ":5000"
  mode: debug

database:
  host: localhost
  port: "3306"
  username: root
  password: "1234"
  dbname: accounting_db
  charset: utf8mb4
  sqlite_path: records.db
`)
