package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/parser"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/store"
)

var (
	outputPath string
	pretty     bool
	showData   bool
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Show how a workbook's sheet is classified and extracted",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().String("sheet", "", "Worksheet to extract (default P1)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&showData, "data", false, "Include data rows in the row listing")
	return cmd
}

// Inspection is the JSON document printed by the inspect command.
type Inspection struct {
	File         string               `json:"file"`
	Survey       models.Survey        `json:"survey"`
	Sheet        string               `json:"sheet"`
	Columns      []string             `json:"columns"`
	Rows         []InspectedRow       `json:"rows"`
	Questions    []InspectedQuestion  `json:"questions"`
	Demographics []models.Demographic `json:"demographics,omitempty"`
	Result       *parser.Result       `json:"result"`
}

// InspectedRow is one classified row of the main column.
type InspectedRow struct {
	Index int         `json:"index"`
	R     int         `json:"r"`
	Role  parser.Role `json:"role"`
	Text  string      `json:"text"`
}

// InspectedQuestion is a question with its options and fact counts.
type InspectedQuestion struct {
	models.Question
	Options   []models.AnswerOption `json:"options,omitempty"`
	Facts     int                   `json:"facts"`
	Responses int                   `json:"demographic_responses"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	in, err := inspect(cmd.Context(), inputPath, cfg.Options(logger), showData)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	jsonData, err := toJSON(in, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

// inspect extracts path into memory and pairs the stored records with the
// role of every main-column row.
func inspect(ctx context.Context, path string, opts pollfacts.Options, withData bool) (*Inspection, error) {
	mem := store.NewMemory()
	rep, err := pollfacts.ExtractFile(ctx, path, mem, opts)
	if err != nil {
		return nil, err
	}

	s, err := sheet.Load(path, opts.SheetName)
	if err != nil {
		return nil, err
	}

	in := &Inspection{
		File:         rep.File,
		Survey:       rep.Survey,
		Sheet:        s.Name(),
		Columns:      s.Columns(),
		Demographics: mem.Demographics(),
		Result:       rep.Result,
	}

	mainColumn := opts.MainColumn
	if mainColumn == "" {
		mainColumn = parser.DefaultMainColumn
	}
	for i := 0; i < s.Len(); i++ {
		text, present := s.Text(i, mainColumn)
		role := parser.Classify(text, present)
		if !present || (role == parser.RoleDataCandidate && !withData) {
			continue
		}
		in.Rows = append(in.Rows, InspectedRow{Index: i, R: s.Row(i).R, Role: role, Text: text})
	}

	facts := map[int64]int{}
	for _, f := range mem.Facts() {
		facts[f.QuestionID]++
	}
	responses := map[int64]int{}
	for _, r := range mem.DemographicResponses() {
		responses[r.QuestionID]++
	}

	qs, err := mem.Questions(ctx, rep.Survey.ID)
	if err != nil {
		return nil, err
	}
	for _, q := range qs {
		in.Questions = append(in.Questions, InspectedQuestion{
			Question:  q,
			Options:   mem.Options(q.ID),
			Facts:     facts[q.ID],
			Responses: responses[q.ID],
		})
	}
	return in, nil
}
