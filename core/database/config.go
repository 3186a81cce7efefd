package database

// Config holds configuration for the catalog database connection.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path when Driver is sqlite.
	Name string `mapstructure:"name" default:"wordpress"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)
