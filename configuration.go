package officepool

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-officepool/internal/fileutil"
	"github.com/alnah/go-officepool/internal/process"
)

// Default configuration values.
const (
	DefaultPortNumber           = 2002
	DefaultPipeName             = "office"
	DefaultTaskQueueTimeout     = 30 * time.Second
	DefaultTaskExecutionTimeout = 2 * time.Minute
	DefaultMaxTasksPerWorker    = 200
	DefaultRetryTimeout         = 2 * time.Minute
	DefaultRetryInterval        = 250 * time.Millisecond
)

// Configuration accumulates pool settings and builds a PoolManager.
//
// Setters that cannot fail return the configuration for chaining; setters
// that validate their argument return it along with an error wrapping
// ErrInvalidArgument. A Configuration is meant to be filled by one goroutine
// and consumed once by Build.
type Configuration struct {
	officeHome           string
	protocol             ConnectionProtocol
	portNumbers          []int
	pipeNames            []string
	runAsArgs            []string
	templateProfileDir   string
	workDir              string
	taskQueueTimeout     time.Duration
	taskExecutionTimeout time.Duration
	maxTasksPerWorker    int
	retryTimeout         time.Duration
	retryInterval        time.Duration
	processManager       ProcessManager
	logger               zerolog.Logger

	resolver *process.Resolver
	built    bool
}

// NewConfiguration returns a configuration holding the defaults, with the
// office installation detected from the running platform.
func NewConfiguration() *Configuration {
	return &Configuration{
		officeHome:           DefaultOfficeHome(),
		protocol:             ProtocolSocket,
		portNumbers:          []int{DefaultPortNumber},
		pipeNames:            []string{DefaultPipeName},
		workDir:              os.TempDir(),
		taskQueueTimeout:     DefaultTaskQueueTimeout,
		taskExecutionTimeout: DefaultTaskExecutionTimeout,
		maxTasksPerWorker:    DefaultMaxTasksPerWorker,
		retryTimeout:         DefaultRetryTimeout,
		retryInterval:        DefaultRetryInterval,
		logger:               zerolog.Nop(),
		resolver:             process.NewResolver(),
	}
}

// SetOfficeHome sets the office installation directory.
func (c *Configuration) SetOfficeHome(dir string) (*Configuration, error) {
	if dir == "" {
		return c, invalidArgument("officeHome", "must not be empty")
	}
	if !fileutil.DirExists(dir) {
		return c, invalidArgument("officeHome", "must exist and be a directory: "+dir)
	}
	c.officeHome = dir
	return c, nil
}

// SetConnectionProtocol selects which endpoint sequence defines the pool.
func (c *Configuration) SetConnectionProtocol(p ConnectionProtocol) (*Configuration, error) {
	if !p.Valid() {
		return c, invalidArgument("connectionProtocol", "must be ProtocolSocket or ProtocolPipe, got "+p.String())
	}
	c.protocol = p
	return c, nil
}

// SetPortNumber replaces the port sequence with the single port.
func (c *Configuration) SetPortNumber(port int) *Configuration {
	c.portNumbers = []int{port}
	return c
}

// SetPortNumbers replaces the port sequence; one worker per port.
func (c *Configuration) SetPortNumbers(ports ...int) (*Configuration, error) {
	if ports == nil {
		return c, invalidArgument("portNumbers", "must not be nil")
	}
	if len(ports) == 0 {
		return c, invalidArgument("portNumbers", "must not be empty")
	}
	c.portNumbers = append([]int(nil), ports...)
	return c, nil
}

// SetPipeName replaces the pipe-name sequence with the single name.
func (c *Configuration) SetPipeName(name string) (*Configuration, error) {
	if name == "" {
		return c, invalidArgument("pipeName", "must not be empty")
	}
	c.pipeNames = []string{name}
	return c, nil
}

// SetPipeNames replaces the pipe-name sequence; one worker per name.
func (c *Configuration) SetPipeNames(names ...string) (*Configuration, error) {
	if names == nil {
		return c, invalidArgument("pipeNames", "must not be nil")
	}
	if len(names) == 0 {
		return c, invalidArgument("pipeNames", "must not be empty")
	}
	for i, name := range names {
		if name == "" {
			return c, invalidArgument(fmt.Sprintf("pipeNames[%d]", i), "must not be empty")
		}
	}
	c.pipeNames = append([]string(nil), names...)
	return c, nil
}

// SetRunAsArgs sets the privilege-elevation prefix used to launch and inspect
// workers, e.g. "sudo", "-n", "-u", "office". No arguments means no elevation.
func (c *Configuration) SetRunAsArgs(args ...string) *Configuration {
	if len(args) == 0 {
		c.runAsArgs = nil
		return c
	}
	c.runAsArgs = append([]string(nil), args...)
	return c
}

// SetTemplateProfileDir sets the user profile copied into every worker's
// instance directory. An empty dir clears it.
func (c *Configuration) SetTemplateProfileDir(dir string) (*Configuration, error) {
	if dir != "" && !fileutil.DirExists(dir) {
		return c, invalidArgument("templateProfileDir", "must exist and be a directory: "+dir)
	}
	c.templateProfileDir = dir
	return c, nil
}

// SetWorkDir sets where per-worker instance profiles are created.
// Existence is checked by Build.
func (c *Configuration) SetWorkDir(dir string) (*Configuration, error) {
	if dir == "" {
		return c, invalidArgument("workDir", "must not be empty")
	}
	c.workDir = dir
	return c, nil
}

// The numeric setters below accept any value; the pool manager decides how
// zero and negative values behave.

// SetTaskQueueTimeout bounds how long a task waits for a free worker.
func (c *Configuration) SetTaskQueueTimeout(d time.Duration) *Configuration {
	c.taskQueueTimeout = d
	return c
}

// SetTaskExecutionTimeout bounds how long one task may run.
func (c *Configuration) SetTaskExecutionTimeout(d time.Duration) *Configuration {
	c.taskExecutionTimeout = d
	return c
}

// SetMaxTasksPerWorker sets how many tasks a worker serves before restart.
func (c *Configuration) SetMaxTasksPerWorker(n int) *Configuration {
	c.maxTasksPerWorker = n
	return c
}

// SetRetryTimeout bounds retries of calls directed at a worker.
func (c *Configuration) SetRetryTimeout(d time.Duration) *Configuration {
	c.retryTimeout = d
	return c
}

// SetRetryInterval sets the pause between retries.
func (c *Configuration) SetRetryInterval(d time.Duration) *Configuration {
	c.retryInterval = d
	return c
}

// SetProcessManager overrides process-inspection strategy resolution.
func (c *Configuration) SetProcessManager(m ProcessManager) (*Configuration, error) {
	if m == nil {
		return c, invalidArgument("processManager", "must not be nil")
	}
	c.processManager = m
	return c, nil
}

// SetLogger sets the logger handed to the pool manager.
func (c *Configuration) SetLogger(l zerolog.Logger) *Configuration {
	c.logger = l
	return c
}

// Build validates the configuration, resolves the process strategy if none
// was set, derives one endpoint per worker, and constructs the PoolManager.
// No worker is launched. A configuration can be built only once.
func (c *Configuration) Build() (*PoolManager, error) {
	if c.built {
		return nil, invalidState("configuration has already been built")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	if c.processManager == nil {
		c.processManager = c.resolveProcessManager()
		c.logger.Debug().Str("strategy", c.processManager.Name()).Msg("resolved process manager")
	}

	pm, err := NewPoolManager(c.settings())
	if err != nil {
		return nil, err
	}
	c.built = true
	return pm, nil
}

// validate checks the filesystem prerequisites of the whole configuration.
func (c *Configuration) validate() error {
	if c.officeHome == "" {
		return invalidState("officeHome not set and could not be auto-detected")
	}
	if !fileutil.DirExists(c.officeHome) {
		return invalidState("officeHome doesn't exist or is not a directory: %s", c.officeHome)
	}
	if exe := OfficeExecutable(c.officeHome); !fileutil.FileExists(exe) {
		return invalidState("invalid officeHome: it doesn't contain %s: %s", exe, c.officeHome)
	}
	if c.templateProfileDir != "" && !isValidProfileDir(c.templateProfileDir) {
		return invalidState("templateProfileDir doesn't appear to contain a user profile: %s", c.templateProfileDir)
	}
	if !fileutil.DirExists(c.workDir) {
		return invalidState("workDir doesn't exist or is not a directory: %s", c.workDir)
	}
	return nil
}

func (c *Configuration) resolveProcessManager() ProcessManager {
	r := c.resolver
	if r == nil {
		r = process.NewResolver()
	}
	return r.Resolve(c.runAsArgs)
}

// endpoints derives one endpoint per worker from the active sequence.
func (c *Configuration) endpoints() []Endpoint {
	if c.protocol == ProtocolPipe {
		out := make([]Endpoint, len(c.pipeNames))
		for i, name := range c.pipeNames {
			out[i] = PipeEndpoint(name)
		}
		return out
	}
	out := make([]Endpoint, len(c.portNumbers))
	for i, port := range c.portNumbers {
		out[i] = SocketEndpoint(port)
	}
	return out
}

// settings assembles the bundle handed to NewPoolManager.
func (c *Configuration) settings() ManagerSettings {
	return ManagerSettings{
		OfficeHome:           c.officeHome,
		Endpoints:            c.endpoints(),
		RunAsArgs:            append([]string(nil), c.runAsArgs...),
		TemplateProfileDir:   c.templateProfileDir,
		WorkDir:              c.workDir,
		TaskQueueTimeout:     c.taskQueueTimeout,
		TaskExecutionTimeout: c.taskExecutionTimeout,
		MaxTasksPerWorker:    c.maxTasksPerWorker,
		RetryTimeout:         c.retryTimeout,
		RetryInterval:        c.retryInterval,
		ProcessManager:       c.processManager,
		Logger:               c.logger,
	}
}
