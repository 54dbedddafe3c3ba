package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalambet/cockpit/internal/api"
	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/config"
	"github.com/kalambet/cockpit/internal/contextfile"
	"github.com/kalambet/cockpit/internal/profile"
	"github.com/kalambet/cockpit/internal/schema"
)

// --- render ---

type renderOptions struct {
	profilePath     string
	contextPath     string
	outputPath      string
	date            string
	asJSON          bool
	defaultLanguage string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a prompt from a profile file",
		Long: `Render a prompt from a YAML or JSON profile file.

Keys not present in the file keep their defaults.

Examples:
  cockpit render --profile swot.yaml
  cockpit render --profile swot.yaml --context-file brief.pdf --json --output swot.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.defaultLanguage = cfg.Render.DefaultLanguage
			fmt.Fprintln(diag, colorize(colorYellow, catalog.Notice))
			return runRender(opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "profile file (.yaml, .yml or .json); defaults when empty")
	cmd.Flags().StringVar(&opts.contextPath, "context-file", "", "file whose text becomes the context (.txt, .md or .pdf)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&opts.date, "date", "", "date stamp as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit the JSON document instead of the prompt text")
	return cmd
}

func runRender(opts renderOptions, stdout io.Writer) error {
	form := profile.NewForm()
	if catalog.ValidLanguage(opts.defaultLanguage) {
		form.Language = opts.defaultLanguage
	}

	if opts.profilePath != "" {
		var err error
		if form, err = loadProfileFile(opts.profilePath, form); err != nil {
			return err
		}
	}

	if opts.contextPath != "" {
		text, err := contextfile.Load(opts.contextPath)
		if err != nil {
			return err
		}
		form.Context = text
	}

	now := time.Now()
	if opts.date != "" {
		d, err := time.Parse(time.DateOnly, opts.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", opts.date)
		}
		now = d
	}

	out := api.Render(form, now)
	data := []byte(out.Prompt)
	if opts.asJSON {
		b, err := schema.Marshal(out.Document)
		if err != nil {
			return fmt.Errorf("encoding document: %w", err)
		}
		data = b
	}

	if opts.outputPath == "" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}
	if err := os.WriteFile(opts.outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	printSuccess("Wrote %s", opts.outputPath)
	return nil
}

// loadProfileFile decodes a YAML or JSON form file over base. Unknown keys
// are rejected.
func loadProfileFile(path string, base profile.Form) (profile.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Form{}, fmt.Errorf("reading profile: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&base); err != nil {
			return profile.Form{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&base); err != nil && !errors.Is(err, io.EOF) {
			return profile.Form{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return profile.Form{}, fmt.Errorf("unsupported profile format %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
	return base, nil
}

// --- catalog ---

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [use-case]",
		Short: "List the selectable options",
		Long: `Without arguments, list use-cases, modes and the setting scales.
With a use-case key, list its sub-use-cases, goals and goal sub-types.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				printCatalog(w)
				return nil
			}
			return printUseCase(w, args[0])
		},
	}
}

func printOptions(w io.Writer, title string, opts []catalog.Option) {
	fmt.Fprintln(w, colorize(colorBold, title))
	for _, o := range opts {
		fmt.Fprintf(w, "  %-14s %s\n", o.Key, o.Label)
	}
}

func printCatalog(w io.Writer) {
	printOptions(w, "Use-cases", catalog.UseCases())
	printOptions(w, "Modes", catalog.Modes())
	printOptions(w, "Languages", catalog.Languages())
	printOptions(w, "Output formats", catalog.OutputFormats())
	printOptions(w, "Lengths", catalog.Lengths())
	printOptions(w, "Tones", catalog.Tones())
	printOptions(w, "Rigor", catalog.Rigors())
	fmt.Fprintln(w, colorize(colorBold, "Structure blocks"))
	printList(w, catalog.StructureBlocks())
}

func printUseCase(w io.Writer, useCase string) error {
	if !catalog.ValidUseCase(useCase) {
		return fmt.Errorf("unknown use-case %q", useCase)
	}
	fmt.Fprintln(w, colorize(colorBold, catalog.UseCaseLabel(useCase)))

	fmt.Fprintln(w, colorize(colorBold, "Sub-use-cases"))
	printList(w, catalog.SubUseCases(useCase))

	fmt.Fprintln(w, colorize(colorBold, "Goals"))
	for i, g := range catalog.Goals(useCase) {
		fmt.Fprintf(w, "%2d. %s\n", i+1, g)
		for _, st := range catalog.GoalSubtypes(g) {
			fmt.Fprintf(w, "      - %s\n", st)
		}
	}
	return nil
}

// --- questions ---

func newQuestionsCmd() *cobra.Command {
	var (
		mode  string
		goals []string
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the deep-question candidates for a mode and goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !catalog.ValidMode(mode) {
				printWarning("unknown mode %q, using %s", mode, profile.DefaultMode)
			}
			printList(cmd.OutOrStdout(), profile.ResolveDeepQuestionCandidates(mode, goals))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", profile.DefaultMode, "conversation mode (practical, emotional, social)")
	cmd.Flags().StringArrayVar(&goals, "goal", nil, "selected goal (repeatable)")
	return cmd
}

// --- templates ---

type templateSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage saved templates on the running server",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved templates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := client.get(cmdContext(cmd), fmt.Sprintf("/templates?limit=%d", limit))
			if err != nil {
				return err
			}
			var result struct {
				Templates []templateSummary `json:"templates"`
				Total     int               `json:"total"`
			}
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(result.Templates) == 0 {
				fmt.Fprintln(w, "No templates saved.")
				return nil
			}
			for _, t := range result.Templates {
				fmt.Fprintf(w, "%s  %s  %s\n",
					colorize(colorCyan, shortID(t.ID)),
					t.CreatedAt.Local().Format(time.DateTime),
					t.Name,
				)
			}
			if result.Total > len(result.Templates) {
				fmt.Fprintf(w, "(%d of %d shown)\n", len(result.Templates), result.Total)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of templates to list")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template with its form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := client.get(cmdContext(cmd), "/templates/"+url.PathEscape(args[0]))
			if err != nil {
				return err
			}
			var t any
			if err := decodeJSON(resp, &t); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(t)
		},
	}

	var asJSON bool
	render := &cobra.Command{
		Use:   "render <id>",
		Short: "Render the prompt stored in a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			out, err := renderTemplate(cmdContext(cmd), client, args[0], asJSON)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	render.Flags().BoolVar(&asJSON, "json", false, "emit the JSON document instead of the prompt text")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := client.delete(cmdContext(cmd), "/templates/"+url.PathEscape(args[0]))
			if err != nil {
				return err
			}
			if _, err := readBody(resp); err != nil {
				return err
			}
			printSuccess("Deleted template %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, render, del)
	return cmd
}

// renderTemplate opens a throwaway session seeded from the template, downloads
// its prompt or document, and closes the session again.
func renderTemplate(ctx context.Context, client *apiClient, id string, asJSON bool) ([]byte, error) {
	resp, err := client.post(ctx, "/sessions", map[string]string{"template_id": id})
	if err != nil {
		return nil, err
	}
	var s struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(resp, &s); err != nil {
		return nil, err
	}
	defer func() {
		if resp, err := client.delete(ctx, "/sessions/"+s.ID); err == nil {
			resp.Body.Close()
		}
	}()

	path := "/sessions/" + s.ID + "/prompt"
	if asJSON {
		path = "/sessions/" + s.ID + "/schema"
	}
	resp, err = client.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return readBody(resp)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// --- config ---

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, k := range config.ShowAll(cfg) {
				fmt.Fprintf(w, "  %s = %s  (%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.SetKey(key, value); err != nil {
				return err
			}
			printSuccess("Set %s = %s", key, value)
			return nil
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}
