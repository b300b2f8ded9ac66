package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	officepool "github.com/alnah/go-officepool"
)

// poolPlan describes a built pool without starting it.
type poolPlan struct {
	OfficeHome         string       `json:"office_home"`
	Executable         string       `json:"executable"`
	Protocol           string       `json:"protocol"`
	Strategy           string       `json:"strategy"`
	RunAs              []string     `json:"run_as,omitempty"`
	WorkDir            string       `json:"work_dir"`
	TemplateProfileDir string       `json:"template_profile_dir,omitempty"`
	QueueTimeout       string       `json:"queue_timeout"`
	ExecutionTimeout   string       `json:"execution_timeout"`
	MaxTasksPerWorker  int          `json:"max_tasks_per_worker"`
	RetryTimeout       string       `json:"retry_timeout"`
	RetryInterval      string       `json:"retry_interval"`
	Workers            []planWorker `json:"workers"`
}

// planWorker describes one worker slot.
type planWorker struct {
	Endpoint   string   `json:"endpoint"`
	Connect    string   `json:"connect"`
	ProfileDir string   `json:"profile_dir"`
	Command    []string `json:"command"`
}

// newPlan summarizes pool.
func newPlan(pool *officepool.PoolManager) *poolPlan {
	s := pool.Settings()
	p := &poolPlan{
		OfficeHome:         s.OfficeHome,
		Executable:         officepool.OfficeExecutable(s.OfficeHome),
		Protocol:           s.Endpoints[0].Protocol.String(),
		Strategy:           s.ProcessManager.Name(),
		RunAs:              s.RunAsArgs,
		WorkDir:            s.WorkDir,
		TemplateProfileDir: s.TemplateProfileDir,
		QueueTimeout:       s.TaskQueueTimeout.String(),
		ExecutionTimeout:   s.TaskExecutionTimeout.String(),
		MaxTasksPerWorker:  s.MaxTasksPerWorker,
		RetryTimeout:       s.RetryTimeout.String(),
		RetryInterval:      s.RetryInterval.String(),
	}
	for _, w := range pool.Workers() {
		p.Workers = append(p.Workers, planWorker{
			Endpoint:   w.Endpoint().String(),
			Connect:    w.Endpoint().ConnectString(),
			ProfileDir: w.InstanceProfileDir(),
			Command:    w.CommandLine(),
		})
	}
	return p
}

// runCheckCmd validates the pool description and prints the resulting plan.
func runCheckCmd(args []string, env *Environment) int {
	f, err := parsePoolFlags("check", args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return fail(env.Stderr, err, "")
	}

	s, err := setupPool(f, env)
	if err != nil {
		return fail(env.Stderr, err, hintFor(err, configName(f, loadEnvConfig(env.Getenv)), nil))
	}

	plan := newPlan(s.pool)
	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(plan)
	} else {
		printPlan(env.Stdout, plan)
	}
	return ExitSuccess
}

// printPlan outputs a human-readable pool plan.
func printPlan(w io.Writer, p *poolPlan) {
	fmt.Fprintln(w, "officepool check")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Office")
	fmt.Fprintf(w, "  Home:        %s\n", p.OfficeHome)
	fmt.Fprintf(w, "  Executable:  %s\n", p.Executable)
	fmt.Fprintf(w, "  Strategy:    %s\n", p.Strategy)
	if len(p.RunAs) > 0 {
		fmt.Fprintf(w, "  Run as:      %s\n", strings.Join(p.RunAs, " "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tasks")
	fmt.Fprintf(w, "  Queue timeout:      %s\n", p.QueueTimeout)
	fmt.Fprintf(w, "  Execution timeout:  %s\n", p.ExecutionTimeout)
	fmt.Fprintf(w, "  Max per worker:     %d\n", p.MaxTasksPerWorker)
	fmt.Fprintf(w, "  Retry:              %s every %s\n", p.RetryTimeout, p.RetryInterval)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Workers (%d, %s)\n", len(p.Workers), p.Protocol)
	for _, wk := range p.Workers {
		fmt.Fprintf(w, "  %s\n", wk.Endpoint)
		fmt.Fprintf(w, "    connect:  %s\n", wk.Connect)
		fmt.Fprintf(w, "    profile:  %s\n", wk.ProfileDir)
	}
	if p.TemplateProfileDir != "" {
		fmt.Fprintf(w, "  (profiles copied from %s)\n", p.TemplateProfileDir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Status: Ready to start")
}
