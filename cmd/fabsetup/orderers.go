/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

type ordererStatus struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Alive *bool  `yaml:"alive,omitempty"`
}

func orderersCmd(f *cmdFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orderers",
		Short: "Orderer endpoints: health.",
	}
	cmd.AddCommand(healthCmd(f))
	return cmd
}

func healthCmd(f *cmdFactory) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Ping the configured orderers and list the live ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return health(cmd, f, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every configured orderer without pinging")
	return cmd
}

func health(cmd *cobra.Command, f *cmdFactory, all bool) error {
	rc, _, err := f.resourceClient(cmd, "")
	if err != nil {
		return err
	}
	orderers, err := f.sdk.Orderers()
	if err != nil {
		return err
	}
	names := f.sdk.Config().OrdererNames()

	ctx, cancel := f.context(cmd)
	defer cancel()

	healthy, err := rc.HealthyOrderers(ctx, orderers, !all)
	if err != nil {
		return err
	}
	live := make(map[string]bool, len(healthy))
	for _, o := range healthy {
		live[o.URL()] = true
	}

	statuses := make([]ordererStatus, 0, len(orderers))
	for i, o := range orderers {
		s := ordererStatus{Name: names[i], URL: o.URL()}
		if !all {
			alive := live[o.URL()]
			s.Alive = &alive
		}
		statuses = append(statuses, s)
	}
	return f.print(statuses)
}
