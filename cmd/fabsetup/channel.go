/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io/ioutil"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fabsetup/fabric-setup-go/pkg/client/resmgmt"
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
)

// result is the YAML document printed for each setup action
type result struct {
	Action           string `yaml:"action"`
	ChannelID        string `yaml:"channel"`
	resmgmt.Response `yaml:",inline"`
	Error            string `yaml:"error,omitempty"`
}

type channelFlags struct {
	channelID  string
	txFile     string
	orderer    string
	peers      []string
	commitWait bool
	output     string
	strict     bool
}

func channelCmd(f *cmdFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Channel setup: create|join|update-anchors|genesis|validate-name.",
	}
	cmd.AddCommand(createCmd(f))
	cmd.AddCommand(joinCmd(f))
	cmd.AddCommand(updateAnchorsCmd(f))
	cmd.AddCommand(genesisCmd(f))
	cmd.AddCommand(validateNameCmd(f))
	return cmd
}

func createCmd(f *cmdFactory) *cobra.Command {
	fl := &channelFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a channel, retrying until the orderer accepts it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return create(cmd, f, fl)
		},
	}
	flags := cmd.Flags()
	addChannelIDFlag(flags, fl, "Channel to create")
	flags.StringVarP(&fl.txFile, "file", "f", "", "Configuration transaction file generated by a tool such as configtxgen")
	addOrdererFlag(flags, fl, "Name of the configured orderer to send to; defaults to the first by name")
	return cmd
}

func create(cmd *cobra.Command, f *cmdFactory, fl *channelFlags) error {
	if fl.txFile == "" {
		return errors.New("channel configuration file is required (--file)")
	}
	rc, opts, err := f.resourceClient(cmd, fl.orderer)
	if err != nil {
		return err
	}

	ctx, cancel := f.context(cmd)
	defer cancel()

	resp, err := rc.CreateChannel(ctx, resmgmt.CreateChannelRequest{ChannelID: fl.channelID, ChannelConfigPath: fl.txFile}, opts...)
	return f.report("create", fl.channelID, resp, err)
}

func joinCmd(f *cmdFactory) *cobra.Command {
	fl := &channelFlags{}
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join peers to a channel, retrying while the channel is not ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return join(cmd, f, fl)
		},
	}
	flags := cmd.Flags()
	addChannelIDFlag(flags, fl, "Channel to join")
	flags.StringArrayVarP(&fl.peers, "peer", "p", nil, "Name of a configured peer to join; repeatable, defaults to all configured peers")
	addOrdererFlag(flags, fl, "Name of the configured orderer to fetch the genesis block from")
	return cmd
}

func join(cmd *cobra.Command, f *cmdFactory, fl *channelFlags) error {
	rc, opts, err := f.resourceClient(cmd, fl.orderer)
	if err != nil {
		return err
	}

	peers := fl.peers
	if len(peers) == 0 {
		peers = f.sdk.Config().PeerNames()
	}
	if len(peers) == 0 {
		return errors.New("no peer to join: use --peer or configure peers")
	}

	ctx, cancel := f.context(cmd)
	defer cancel()

	var errs error
	for _, name := range peers {
		p, err := f.sdk.Peer(name)
		if err != nil {
			return err
		}
		resp, err := rc.JoinChannel(ctx, resmgmt.JoinChannelRequest{ChannelID: fl.channelID, Peer: p}, opts...)
		errs = multi.Append(errs, f.report("join", fl.channelID, resp, err))
	}
	return errs
}

func updateAnchorsCmd(f *cmdFactory) *cobra.Command {
	fl := &channelFlags{}
	cmd := &cobra.Command{
		Use:   "update-anchors",
		Short: "Submit an anchor peer update; never retried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateAnchors(cmd, f, fl)
		},
	}
	flags := cmd.Flags()
	addChannelIDFlag(flags, fl, "Channel to update")
	flags.StringVarP(&fl.txFile, "file", "f", "", "Anchor peer update transaction file")
	addOrdererFlag(flags, fl, "Name of the configured orderer to send to")
	flags.BoolVar(&fl.commitWait, "commit-wait", false, "Wait until the update is committed to a block")
	return cmd
}

func updateAnchors(cmd *cobra.Command, f *cmdFactory, fl *channelFlags) error {
	if fl.txFile == "" {
		return errors.New("anchor peer update file is required (--file)")
	}
	rc, opts, err := f.resourceClient(cmd, fl.orderer)
	if err != nil {
		return err
	}
	if fl.commitWait {
		opts = append(opts, resmgmt.WithCommitWait())
	}

	ctx, cancel := f.context(cmd)
	defer cancel()

	resp, err := rc.UpdateAnchorPeers(ctx, resmgmt.UpdateAnchorPeersRequest{ChannelID: fl.channelID, AnchorPeersConfigPath: fl.txFile}, opts...)
	return f.report("update-anchors", fl.channelID, resp, err)
}

func genesisCmd(f *cmdFactory) *cobra.Command {
	fl := &channelFlags{}
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Fetch the genesis block of a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return genesis(cmd, f, fl)
		},
	}
	flags := cmd.Flags()
	addChannelIDFlag(flags, fl, "Channel to fetch from; defaults to the orderer system channel")
	addOrdererFlag(flags, fl, "Name of the configured orderer to fetch from")
	flags.StringVarP(&fl.output, "outputBlock", "O", "", "File to write the block to")
	return cmd
}

func genesis(cmd *cobra.Command, f *cmdFactory, fl *channelFlags) error {
	if fl.output == "" {
		return errors.New("output file is required (--outputBlock)")
	}
	rc, opts, err := f.resourceClient(cmd, fl.orderer)
	if err != nil {
		return err
	}

	ctx, cancel := f.context(cmd)
	defer cancel()

	block, err := rc.GenesisBlock(ctx, fl.channelID, opts...)
	if err != nil {
		return err
	}
	b, err := proto.Marshal(block)
	if err != nil {
		return errors.Wrap(err, "marshal of genesis block failed")
	}
	if err := ioutil.WriteFile(fl.output, b, 0644); err != nil {
		return errors.Wrapf(err, "write of genesis block to %s failed", fl.output)
	}
	fmt.Fprintf(f.out, "genesis block %d written to %s\n", block.GetHeader().GetNumber(), fl.output)
	return nil
}

func validateNameCmd(f *cmdFactory) *cobra.Command {
	fl := &channelFlags{}
	cmd := &cobra.Command{
		Use:   "validate-name NAME",
		Short: "Check a channel name against the channel name syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			valid, err := resmgmt.ValidateChannelName(args[0], fl.strict)
			if err != nil {
				return err
			}
			fmt.Fprintln(f.out, valid)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fl.strict, "strict", false, "Fail with an InvalidChannelName error instead of printing false")
	return cmd
}

func addChannelIDFlag(flags *pflag.FlagSet, fl *channelFlags, usage string) {
	flags.StringVarP(&fl.channelID, "channelID", "C", "", usage)
}

func addOrdererFlag(flags *pflag.FlagSet, fl *channelFlags, usage string) {
	flags.StringVarP(&fl.orderer, "orderer", "o", "", usage)
}

// resourceClient builds the resource management client and the request
// options derived from the global flags and --orderer
func (f *cmdFactory) resourceClient(cmd *cobra.Command, ordererName string) (*resmgmt.Client, []resmgmt.RequestOption, error) {
	sdk, err := f.SDK()
	if err != nil {
		return nil, nil, err
	}
	rc, err := sdk.ResourceMgmt()
	if err != nil {
		return nil, nil, err
	}

	opts := []resmgmt.RequestOption{resmgmt.WithRetry(f.retryOpts(cmd))}
	if ordererName != "" {
		o, err := sdk.Orderer(ordererName)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, resmgmt.WithOrderer(o))
	}
	return rc, opts, nil
}

// report prints the outcome of an action and returns err when the action has not taken effect
func (f *cmdFactory) report(action, channelID string, resp resmgmt.Response, err error) error {
	r := result{Action: action, ChannelID: channelID, Response: resp}
	if err != nil {
		r.Error = err.Error()
	}
	if perr := f.print(r); perr != nil {
		return perr
	}
	if err != nil {
		return errors.WithMessagef(err, "%s on %s", action, resp.Target)
	}
	return nil
}
