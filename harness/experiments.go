// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package harness

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode/cfhello"
)

// Greet sends the normal action and expects a single greeting line
type Greet struct {
	User core.Name
}

func (expm *Greet) Name() string {
	return "greet_" + expm.User.String()
}

func (expm *Greet) Run(env *Env) error {
	return expectConsole(env, env.Builder.Greet(expm.User),
		[]string{cfhello.Greeting(expm.User)})
}

// ContextFreeData sends the contextfree action with Segments
type ContextFreeData struct {
	Label    string
	Segments [][]byte
}

func (expm *ContextFreeData) Name() string {
	return "context_free_data_" + expm.Label
}

func (expm *ContextFreeData) Run(env *Env) error {
	return expectConsole(env, env.Builder.DumpContextFree(expm.Segments),
		expectedDump(expm.Segments))
}

// GreetAndDump sends both actions in one tx,
// context free actions run first
type GreetAndDump struct {
	User     core.Name
	Segments [][]byte
}

func (expm *GreetAndDump) Name() string {
	return "greet_and_dump"
}

func (expm *GreetAndDump) Run(env *Env) error {
	expected := append(expectedDump(expm.Segments), cfhello.Greeting(expm.User))
	return expectConsole(env, env.Builder.GreetAndDump(expm.User, expm.Segments), expected)
}

// QueryGreeting reads the greeting without a tx
type QueryGreeting struct {
	User core.Name
}

func (expm *QueryGreeting) Name() string {
	return "query_greeting"
}

func (expm *QueryGreeting) Run(env *Env) error {
	ctx, cancel := context.WithTimeout(context.Background(), env.Timeout)
	defer cancel()
	val, err := env.Client.QueryState(ctx, env.Builder.GreetingQuery(expm.User))
	if err != nil {
		return fmt.Errorf("query failed, %w", err)
	}
	if string(val) != cfhello.Greeting(expm.User) {
		return fmt.Errorf("wrong greeting. expected=%q, actual=%q",
			cfhello.Greeting(expm.User), string(val))
	}
	return nil
}

// RestartNode stops and starts the node, the chain and the deployed
// chaincode must survive
type RestartNode struct {
	Wait time.Duration
}

func (expm *RestartNode) Name() string {
	return "restart_node"
}

func (expm *RestartNode) Run(env *Env) error {
	ctx, cancel := context.WithTimeout(context.Background(), env.Timeout)
	defer cancel()
	before, err := env.Client.GetConsensusStatus(ctx)
	if err != nil {
		return err
	}
	env.Node.Stop()
	fmt.Println("Stopped node")
	Sleep(expm.Wait)

	if err := env.Node.Start(); err != nil {
		return err
	}
	if err := waitNodeReady(env); err != nil {
		return err
	}
	fmt.Println("Restarted node")
	after, err := env.Client.GetConsensusStatus(ctx)
	if err != nil {
		return err
	}
	if after.BlockHeight < before.BlockHeight {
		return fmt.Errorf("chain height decreased. before=%d, after=%d",
			before.BlockHeight, after.BlockHeight)
	}
	user := core.MustName("restarted")
	return expectConsole(env, env.Builder.Greet(user), []string{cfhello.Greeting(user)})
}

func expectedDump(segments [][]byte) []string {
	if len(segments) == 0 {
		return []string{cfhello.MsgNoCFData}
	}
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = cfhello.SegmentLine(i, seg)
	}
	return lines
}

func expectConsole(env *Env, tx *core.Transaction, expected []string) error {
	txc, err := env.submitAndWait(tx)
	if err != nil {
		return fmt.Errorf("submit tx failed. %w", err)
	}
	if txc.Error() != "" {
		return fmt.Errorf("tx failed. %s", txc.Error())
	}
	console := txc.Console()
	for _, line := range console {
		fmt.Printf(" + %s\n", line)
	}
	if !slices.Equal(expected, console) {
		return fmt.Errorf("wrong console. expected=%q, actual=%q", expected, console)
	}
	return nil
}

// DefaultExperiments checks the console of every cfhello action
func DefaultExperiments() []Experiment {
	return []Experiment{
		&Greet{User: core.MustName("alice")},
		&ContextFreeData{Label: "none"},
		&ContextFreeData{Label: "foo_bar", Segments: [][]byte{
			[]byte("foo"), []byte("bar"),
		}},
		&GreetAndDump{User: core.MustName("cfactor"), Segments: [][]byte{
			{0x74, 0x65, 0x73, 0x74},
			{0x74, 0x65, 0x73, 0x74, 0x64, 0x61, 0x74, 0x61},
		}},
		&QueryGreeting{User: core.MustName("bob")},
		&RestartNode{Wait: time.Second},
	}
}
