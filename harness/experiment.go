// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/aungmawjj/juria-cfhello/client"
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/fatih/color"
)

var ErrInterrupted = errors.New("interrupted")

// Env is shared by the experiments of one run
type Env struct {
	Node    Node
	Client  *client.Client
	Builder *client.TxBuilder

	// commit wait timeout of each tx
	Timeout time.Duration
}

type Experiment interface {
	Name() string
	Run(env *Env) error
}

type Runner struct {
	Experiments []Experiment
	Node        Node
	Timeout     time.Duration
}

// Run starts the node, deploys cfhello and runs the experiments in order
func (r *Runner) Run() (pass, fail int, err error) {
	bold := color.New(color.Bold)
	boldGreen := color.New(color.Bold, color.FgGreen)
	boldRed := color.New(color.Bold, color.FgRed)

	env, err := r.setup()
	defer r.Node.Stop()
	if err != nil {
		return 0, 0, err
	}

	bold.Println("\nRunning Experiments")
	for i, expm := range r.Experiments {
		bold.Printf("%3d. %s\n", i, expm.Name())
	}

	killed := make(chan os.Signal, 1)
	signal.Notify(killed, os.Interrupt)
	defer signal.Stop(killed)

	for i, expm := range r.Experiments {
		bold.Printf("\nExperiment %d. %s\n", i, expm.Name())
		err := expm.Run(env)
		if err != nil {
			fail++
			fmt.Printf("%s %s\n", boldRed.Sprint("FAIL"), bold.Sprint(expm.Name()))
			fmt.Printf("error: %+v\n", err)
		} else {
			pass++
			fmt.Printf("%s %s\n", boldGreen.Sprint("PASS"), bold.Sprint(expm.Name()))
		}
		select {
		case <-killed:
			return pass, fail, ErrInterrupted
		default:
		}
	}
	return pass, fail, nil
}

func (r *Runner) setup() (*Env, error) {
	if err := r.Node.Start(); err != nil {
		return nil, fmt.Errorf("start node failed, %w", err)
	}
	env := &Env{
		Node:    r.Node,
		Client:  client.New(r.Node.GetEndpoint()),
		Builder: client.NewTxBuilder(core.GenerateKey(nil)),
		Timeout: r.Timeout,
	}
	if env.Timeout == 0 {
		env.Timeout = 30 * time.Second
	}
	if err := waitNodeReady(env); err != nil {
		return nil, err
	}
	tx := env.Builder.Deploy()
	txc, err := env.submitAndWait(tx)
	if err != nil {
		return nil, fmt.Errorf("deploy cfhello failed, %w", err)
	}
	if txc.Error() != "" {
		return nil, fmt.Errorf("deploy cfhello failed, %s", txc.Error())
	}
	env.Builder.SetCodeAddr(execution.CodeAddress(tx.Hash(), 0))
	fmt.Printf("Deployed cfhello at block %d\n", txc.BlockHeight())
	return env, nil
}

func waitNodeReady(env *Env) error {
	ctx, cancel := context.WithTimeout(context.Background(), env.Timeout)
	defer cancel()
	for {
		if _, err := env.Client.GetConsensusStatus(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("node not ready, %w", ctx.Err())
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (env *Env) submitAndWait(tx *core.Transaction) (*core.TxCommit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), env.Timeout)
	defer cancel()
	return env.Client.SubmitTxAndWait(ctx, tx)
}
