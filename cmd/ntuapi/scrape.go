package main

import (
	"fmt"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/scrape"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <content|schedule|exams|semesters>",
	Short: "Run one scrape job now",
	Long: `Run one scrape job against the portal and store the results.

content and schedule scrape the semester given with --acadsem, or every
semester of the most recent academic years when it is omitted. exams scrapes
both timetables unless --student-type picks one.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{scrape.JobContent, scrape.JobSchedule, scrape.JobExams, scrape.JobSemesters},
	RunE: func(cmd *cobra.Command, args []string) error {
		acadsem, _ := cmd.Flags().GetString("acadsem")
		studentType, _ := cmd.Flags().GetString("student-type")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		service := newService(st)
		ctx, cancel := signalContext()
		defer cancel()

		job := args[0]
		switch job {
		case scrape.JobContent, scrape.JobSchedule:
			if acadsem == "" {
				return service.ScrapeRecent(ctx, job)
			}
			a, err := model.ParseAcadsem(acadsem)
			if err != nil {
				return err
			}
			scrapeOne := service.ScrapeContent
			if job == scrape.JobSchedule {
				scrapeOne = service.ScrapeSchedule
			}
			n, err := scrapeOne(ctx, a.String())
			if err != nil {
				return err
			}
			fmt.Printf("Stored %d %s records for %s\n", n, job, a)

		case scrape.JobExams:
			if studentType == "" {
				return service.ScrapeAllExams(ctx)
			}
			t := model.StudentType(studentType)
			if !t.Valid() {
				return fmt.Errorf("unknown student type %q", studentType)
			}
			n, err := service.ScrapeExams(ctx, t)
			if err != nil {
				return err
			}
			fmt.Printf("Stored %d %s exam records\n", n, t)

		case scrape.JobSemesters:
			n, err := service.RefreshSemesters(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Stored %d semesters\n", n)

		default:
			return fmt.Errorf("unknown job %q", job)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("acadsem", "s", "", "Semester to scrape, e.g. 2025_1 (content and schedule only)")
	scrapeCmd.Flags().String("student-type", "", "undergraduate or graduate (exams only)")
}
