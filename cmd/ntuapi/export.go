package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jared-makes-stuff/NTU-Public-APIs/export"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records as CSV",
}

var exportSchedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Export stored class schedules as CSV",
	Long:  `Export stored class schedules to a CSV file, or to stdout when --output is "-".`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		acadsem, _ := cmd.Flags().GetString("acadsem")
		courseCode, _ := cmd.Flags().GetString("course")
		output, _ := cmd.Flags().GetString("output")

		filter := store.ScheduleFilter{CourseCode: strings.ToUpper(courseCode)}
		if acadsem != "" {
			a, err := model.ParseAcadsem(acadsem)
			if err != nil {
				return err
			}
			filter.Acadsem = a.String()
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		if output == "-" {
			sections, err := export.CollectSchedules(ctx, st, filter)
			if err != nil {
				return err
			}
			return export.WriteSchedules(os.Stdout, sections)
		}

		n, err := export.ExportSchedules(ctx, st, filter, output)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d sessions to %s\n", n, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportSchedulesCmd)

	exportSchedulesCmd.Flags().StringP("acadsem", "s", "", "Only export this semester, e.g. 2025_1")
	exportSchedulesCmd.Flags().StringP("course", "c", "", "Only export this course code")
	exportSchedulesCmd.Flags().StringP("output", "o", "schedules.csv", "Output file path, or - for stdout")
}
