package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/presetio"
)

var presetDeleteYes bool

// presetForm holds the string values edited by the huh form.
type presetForm struct {
	Name      string
	Rounds    string
	Sessions  string
	Focus     string
	Break     string
	LongBreak string
}

func newPresetForm(p model.Preset) presetForm {
	return presetForm{
		Name:      p.Name,
		Rounds:    strconv.Itoa(p.RoundsInSession),
		Sessions:  strconv.Itoa(p.TotalSessions),
		Focus:     strconv.Itoa(p.FocusLength),
		Break:     strconv.Itoa(p.BreakLength),
		LongBreak: strconv.Itoa(p.LongBreakLength),
	}
}

// preset converts the form back, keeping id from base.
func (f presetForm) preset(base model.Preset) (model.Preset, error) {
	out := base
	out.Name = strings.TrimSpace(f.Name)
	fields := []struct {
		label  string
		value  string
		target *int
	}{
		{"rounds in session", f.Rounds, &out.RoundsInSession},
		{"total sessions", f.Sessions, &out.TotalSessions},
		{"focus length", f.Focus, &out.FocusLength},
		{"break length", f.Break, &out.BreakLength},
		{"long break length", f.LongBreak, &out.LongBreakLength},
	}
	for _, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field.value))
		if err != nil {
			return model.Preset{}, fmt.Errorf("%s must be a number", field.label)
		}
		*field.target = n
	}
	if err := out.Validate(); err != nil {
		return model.Preset{}, err
	}
	return out, nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be > 0")
	}
	return nil
}

func (f *presetForm) form(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Name").
				Value(&f.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().Title("Rounds per session").Value(&f.Rounds).Validate(positiveInt),
			huh.NewInput().Title("Sessions").Value(&f.Sessions).Validate(positiveInt),
			huh.NewInput().Title("Focus (min)").Value(&f.Focus).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(&f.Break).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(&f.LongBreak).Validate(positiveInt),
		),
	).WithTheme(huh.ThemeDracula())
}

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage timer presets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE:  runPresetListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add a preset",
		Args:  cobra.NoArgs,
		RunE:  runPresetAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetEditCmd,
	})
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetDeleteCmd,
	}
	deleteCmd.Flags().BoolVarP(&presetDeleteYes, "yes", "y", false, "skip confirmation")
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import presets from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetImportCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Export presets as YAML (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPresetExportCmd,
	})
	return cmd
}

func runPresetListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	presets, err := st.ListPresets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list presets: %w", err)
	}
	out := cmd.OutOrStdout()
	all := append([]model.Preset{model.DefaultPreset()}, presets...)
	for _, p := range all {
		if _, err := fmt.Fprintf(out, "%3d  %-20s %dx%d  focus %d  break %d  long %d\n",
			p.ID, p.Name, p.RoundsInSession, p.TotalSessions, p.FocusLength, p.BreakLength, p.LongBreakLength); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runPresetAddCmd(cmd *cobra.Command, _ []string) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	f := newPresetForm(model.DefaultPreset())
	f.Name = ""
	if err := f.form("New preset").Run(); err != nil {
		return fmt.Errorf("failed to read preset: %w", err)
	}
	p, err := f.preset(model.Preset{})
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	id, err := st.InsertPreset(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	logErrf("Added preset %d (%s)\n", id, p.Name)
	return nil
}

func runPresetEditCmd(cmd *cobra.Command, args []string) error {
	id, err := parsePresetID(args[0])
	if err != nil {
		return err
	}
	if err := requireTerminal(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	current, err := st.GetPreset(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load preset %d: %w", id, err)
	}
	f := newPresetForm(current)
	if err := f.form(fmt.Sprintf("Edit preset %d", id)).Run(); err != nil {
		return fmt.Errorf("failed to read preset: %w", err)
	}
	p, err := f.preset(current)
	if err != nil {
		return err
	}
	if err := st.UpdatePreset(cmd.Context(), p); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	logErrf("Updated preset %d (%s)\n", id, p.Name)
	return nil
}

func runPresetDeleteCmd(cmd *cobra.Command, args []string) error {
	id, err := parsePresetID(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	p, err := st.GetPreset(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load preset %d: %w", id, err)
	}
	if !presetDeleteYes {
		ok, err := confirm(fmt.Sprintf("Delete preset %q?", p.Name))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	if err := st.DeletePreset(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	logErrf("Deleted preset %d\n", id)
	return nil
}

func runPresetImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	n, err := presetio.Import(cmd.Context(), st, f)
	if err != nil {
		return err
	}
	logErrf("Imported %d presets\n", n)
	return nil
}

func runPresetExportCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if len(args) == 0 {
		_, err := presetio.Export(cmd.Context(), st, cmd.OutOrStdout())
		return err
	}
	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[0], err)
	}
	n, err := presetio.Export(cmd.Context(), st, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close %s: %w", args[0], cerr)
	}
	if err != nil {
		return err
	}
	logErrf("Exported %d presets to %s\n", n, args[0])
	return nil
}

func parsePresetID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid preset id %q", arg)
	}
	return id, nil
}

func confirm(title string) (bool, error) {
	if err := requireTerminal(); err != nil {
		return false, err
	}
	ok := false
	if err := huh.NewConfirm().Title(title).Value(&ok).Run(); err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ok, nil
}

func requireTerminal() error {
	if !isTerminal() {
		return fmt.Errorf("an interactive terminal is required")
	}
	return nil
}

