package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/spf13/cobra"
)

var vacancyCmd = &cobra.Command{
	Use:   "vacancy <course-code>",
	Short: "Check live vacancies for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := signalContext()
		defer cancel()

		result, err := newService(st).CheckVacancy(ctx, args[0])
		if err != nil {
			return err
		}

		switch format {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		case "table":
			printVacancyTable(result)
			return nil
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(vacancyCmd)

	vacancyCmd.Flags().StringP("format", "f", "table", "Output format: table or json")
}

// printVacancyTable prints a vacancy result in human-readable table format
func printVacancyTable(result model.VacancyResult) {
	if result.Error != nil {
		fmt.Printf("Portal unavailable: %s\n", *result.Error)
		return
	}
	if len(result.Indexes) == 0 {
		fmt.Println("No indexes found.")
		return
	}

	fmt.Printf("%-8s %8s %8s  %-12s %-6s %-4s %-10s %s\n",
		"INDEX", "VACANCY", "WAITLIST", "TYPE", "GROUP", "DAY", "TIME", "VENUE")
	for _, idx := range result.Indexes {
		for i, class := range idx.Classes {
			if i == 0 {
				fmt.Printf("%-8s %8d %8d  ", idx.Index, idx.Vacancy, idx.Waitlist)
			} else {
				fmt.Printf("%-8s %8s %8s  ", "", "", "")
			}
			fmt.Printf("%-12s %-6s %-4s %-10s %s\n", class.Type, class.Group, class.Day, class.Time, class.Venue)
		}
		if len(idx.Classes) == 0 {
			fmt.Printf("%-8s %8d %8d\n", idx.Index, idx.Vacancy, idx.Waitlist)
		}
	}
}
