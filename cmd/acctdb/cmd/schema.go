package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/configuration"
	"github.com/G-Research/acctdb/internal/acctdb/model"
	"github.com/G-Research/acctdb/internal/acctdb/sink"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL of the accounting table without touching any database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseType, err := cmd.Flags().GetString("databaseType")
			if err != nil {
				return errors.WithStack(err)
			}
			var typeName func(model.ColumnType) string
			switch databaseType {
			case configuration.DatabaseTypeSQLite:
				typeName = sink.SQLiteColumnType
			case configuration.DatabaseTypePostgres:
				typeName = sink.PostgresColumnType
			default:
				return errors.WithStack(&acctdberrors.ErrUsage{
					Message: fmt.Sprintf("unknown database type %q", databaseType),
				})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", sink.CreateTableStatement(typeName))
			return errors.WithStack(err)
		},
	}
	cmd.Flags().String("databaseType", configuration.DatabaseTypeSQLite, "Dialect of the printed DDL: sqlite or postgres")
	return cmd
}
