package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/variant"
)

func listVariants(cmd *cobra.Command, args []string) error {
	registry := variant.NewRegistry()
	cfg := config.DefaultConfig()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tENTITIES\tCAMERA\tTEXT")
	for _, tag := range registry.Tags() {
		c := cfg.Clone()
		c.Geometry.Type = tag
		text := ""
		if registry.TextDriven(tag) {
			text = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%s\n", tag, registry.Expected(tag, c), registry.CameraAmplitude(tag), text)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGEOMETRY\tBACKGROUND\tPATTERN")
	for _, id := range config.ListPresets() {
		p := config.GetPreset(id)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, p.Name, p.Geometry.Type, p.Background.Type, p.Motion.Pattern)
	}
	return w.Flush()
}

func exportPreset(cmd *cobra.Command, args []string) error {
	p := config.GetPreset(args[0])
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if err := config.Save(args[1], p); err != nil {
		return err
	}
	fmt.Printf("wrote %s to %s\n", args[0], args[1])
	return nil
}

func validateConfigs(cmd *cobra.Command, args []string) error {
	registry := variant.NewRegistry()
	failed := 0
	for _, path := range args {
		cfg, err := config.Load(path)
		if err == nil {
			err = config.Prepare(cfg)
		}
		if err != nil {
			failed++
			var ice *config.InvalidConfigurationError
			if errors.As(err, &ice) {
				fmt.Printf("invalid  %s: %s: %s\n", path, ice.Field, ice.Reason)
			} else {
				fmt.Printf("error    %s: %v\n", path, err)
			}
			continue
		}

		tag := registry.Resolve(cfg)
		note := ""
		if tag != cfg.Geometry.Type {
			note = fmt.Sprintf(" (plays as %s)", tag)
		}
		fmt.Printf("ok       %s: %s, %s x%d%s\n", path, cfg.Name, cfg.Geometry.Type, registry.Expected(tag, cfg), note)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d configurations invalid", failed, len(args))
	}
	return nil
}
