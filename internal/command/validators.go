// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/attrs"
	"github.com/staranto/docgen/internal/filters"
)

// GlobalFlagsValidator checks the query flags before an action runs, so a
// bad --filter or --attrs fails before the repository is loaded.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if spec := c.String("filter"); spec != "" {
		if _, err := filters.BuildFilters(spec); err != nil {
			return fmt.Errorf("--filter: %w", err)
		}
	}
	if spec := c.String("attrs"); spec != "" {
		var al attrs.AttrList
		if err := al.Set(spec); err != nil {
			return fmt.Errorf("--attrs: %w", err)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

// DirectoryValidator requires an existing directory.
func DirectoryValidator(value any) error {
	info, err := os.Stat(value.(string))
	if err != nil {
		return fmt.Errorf("%s: no such directory", value)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", value)
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if value.(int) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// OneOfValidator accepts only the given strings.
func OneOfValidator(valid ...string) FlagValidatorType {
	return func(value any) error {
		if !slices.Contains(valid, value.(string)) {
			return fmt.Errorf("must be one of %v", valid)
		}
		return nil
	}
}
