package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"configplanner/internal/app"
	"configplanner/internal/core"
	"configplanner/internal/types"
)

type planOptions struct {
	Outline string
	Require []string
	Pins    []string
}

func newPlanCommand() *cobra.Command {
	opts := planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve a build configuration against an outline set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Outline, "outline", "", "Outline file path")
	cmd.Flags().StringSliceVar(&opts.Require, "require", nil, "Package name(s) that must end up activated")
	cmd.Flags().StringSliceVar(&opts.Pins, "set", nil, "Explicit option pin, package/option=value (repeatable)")
	_ = viper.BindPFlag("outline", cmd.Flags().Lookup("outline"))
	_ = viper.BindPFlag("require", cmd.Flags().Lookup("require"))
	_ = viper.BindPFlag("set", cmd.Flags().Lookup("set"))
	return cmd
}

func runPlan(ctx context.Context, cmd *cobra.Command, opts planOptions) error {
	pins, err := parsePins(resolveStrings(cmd, opts.Pins, "set", "set"))
	if err != nil {
		return err
	}

	service := newAppService()
	result, err := service.Plan(ctx, app.PlanRequest{
		OutlinePath: resolveString(cmd, opts.Outline, "outline", "outline"),
		Required:    resolveStrings(cmd, opts.Require, "require", "require"),
		Pins:        pins,
	})
	if err != nil {
		return err
	}
	printPlanResult(result)
	return nil
}

func printPlanResult(result *core.PlanResult) {
	if result.Status != core.PlanSat {
		fmt.Println("status: unsat")
		return
	}
	names := make([]string, 0, len(result.Packages))
	for name := range result.Packages {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("status: sat")
	for _, name := range names {
		pkg := result.Packages[name]
		fmt.Printf("  %s: activated=%t\n", pkg.Package, pkg.Activated)
		optionNames := make([]string, 0, len(pkg.Options))
		for option := range pkg.Options {
			optionNames = append(optionNames, option)
		}
		sort.Strings(optionNames)
		for _, option := range optionNames {
			fmt.Printf("    %s = %s\n", option, pkg.Options[option].String())
		}
	}
}

// parsePins parses repeatable --set flags of the form
// "package/option=value" into explicit option pins (spec.md §2). The
// value's type is inferred: "true"/"false" for bool, a plain integer
// for int, a decimal for float, "v<version>" for Version, otherwise str.
func parsePins(raw []string) (map[types.PackageOption]types.OptionValue, error) {
	pins := make(map[types.PackageOption]types.OptionValue, len(raw))
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("malformed --set %q, expected package/option=value", entry))
		}
		pkg, option, ok := strings.Cut(key, "/")
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("malformed --set %q, expected package/option=value", entry))
		}
		val, err := parsePinValue(value)
		if err != nil {
			return nil, err
		}
		pins[types.PackageOption{Package: pkg, Option: option}] = val
	}
	return pins, nil
}

func parsePinValue(raw string) (types.OptionValue, error) {
	switch raw {
	case "true":
		return types.BoolValue(true), nil
	case "false":
		return types.BoolValue(false), nil
	}
	if strings.HasPrefix(raw, "v") {
		if ver, err := types.ParseVersion(strings.TrimPrefix(raw, "v")); err == nil {
			return types.VersionValue(ver), nil
		}
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return types.IntValue(i), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return types.FloatValue(f), nil
	}
	return types.StrValue(raw), nil
}
