package iocache

import (
	"errors"
	"fmt"

	"github.com/qa4sm/qa4sm-reader/internal/parquet"
)

// ExecuteHistoryExport writes the load history to Parquet files next to outputFile.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalLoads == 0 {
		return errors.New("no load history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total loads: %d\n", status.TotalLoads)
	fmt.Printf("Total variable records: %d\n", status.TableSizes[loadVariablesTable])

	loads, err := store.GetAllLoads()
	if err != nil {
		return fmt.Errorf("failed to retrieve loads: %w", err)
	}

	variables, err := store.GetAllVariables()
	if err != nil {
		return fmt.Errorf("failed to retrieve load variables: %w", err)
	}

	parquetLoads := parquet.ConvertLoadRecords(loads)
	parquetVariables := parquet.ConvertLoadVariableRecords(variables)

	loadsFile := outputFile + ".loads.parquet"
	if err := parquet.WriteLoadsParquet(parquetLoads, loadsFile); err != nil {
		return fmt.Errorf("failed to write loads: %w", err)
	}
	fmt.Printf("Exported %d loads to: %s\n", len(parquetLoads), loadsFile)

	variablesFile := outputFile + ".load_variables.parquet"
	if err := parquet.WriteLoadVariablesParquet(parquetVariables, variablesFile); err != nil {
		return fmt.Errorf("failed to write load variables: %w", err)
	}
	fmt.Printf("Exported %d variable records to: %s\n", len(parquetVariables), variablesFile)

	return nil
}
