package main

import (
	"fmt"

	"github.com/spf13/cobra"

	qlang "github.com/clarete/qlang"
)

var datasourceCmd = &cobra.Command{
	Use:   "datasource <connect-string>",
	Short: "Parse (and, for sqlite, open) a datasource connect string",
	Long: `datasource parses a driver:user/password@host:port/database?opt=val
connect string and prints its components. When the driver is "sqlite"
or "sqlite3" it also opens the database and pings it.

Example:
  qlangd datasource "sqlite://tmp/demo.db"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDatasource(args[0])
	},
}

func init() {
	rootCmd.AddCommand(datasourceCmd)
}

func runDatasource(connStr string) error {
	sink := qlang.NewSink()
	defer sink.Close()

	info := qlang.ParseDatasourceString(connStr, sink)
	if sink.HasError() {
		return fmt.Errorf("%s: %s", sink.Err().Code, sink.Err().Desc)
	}

	fmt.Printf("driver:   %s\n", info.Driver)
	fmt.Printf("user:     %s\n", info.User)
	fmt.Printf("host:     %s\n", info.Host)
	fmt.Printf("port:     %d\n", info.Port)
	fmt.Printf("database: %s\n", info.Database)
	for k, v := range info.Options {
		fmt.Printf("option:   %s=%s\n", k, v)
	}

	db := info.Connect(sink)
	if sink.HasError() {
		return fmt.Errorf("%s: %s", sink.Err().Code, sink.Err().Desc)
	}
	if db == nil {
		return nil
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	printVerbose("connected and pinged successfully\n")
	return nil
}
