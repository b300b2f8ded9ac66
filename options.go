package officepool

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Configuration through Apply.
type Option func(*Configuration) error

// Apply runs opts in order and stops at the first failure, leaving the
// options before it applied.
func (c *Configuration) Apply(opts ...Option) (*Configuration, error) {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return c, err
		}
	}
	return c, nil
}

// WithOfficeHome sets the office installation directory.
func WithOfficeHome(dir string) Option {
	return func(c *Configuration) error {
		_, err := c.SetOfficeHome(dir)
		return err
	}
}

// WithConnectionProtocol sets the connection protocol.
func WithConnectionProtocol(p ConnectionProtocol) Option {
	return func(c *Configuration) error {
		_, err := c.SetConnectionProtocol(p)
		return err
	}
}

// WithPortNumbers sets the worker ports.
func WithPortNumbers(ports ...int) Option {
	return func(c *Configuration) error {
		_, err := c.SetPortNumbers(ports...)
		return err
	}
}

// WithPipeNames sets the worker pipe names.
func WithPipeNames(names ...string) Option {
	return func(c *Configuration) error {
		_, err := c.SetPipeNames(names...)
		return err
	}
}

// WithRunAsArgs sets the privilege-elevation prefix.
func WithRunAsArgs(args ...string) Option {
	return func(c *Configuration) error {
		c.SetRunAsArgs(args...)
		return nil
	}
}

// WithTemplateProfileDir sets the template user profile.
func WithTemplateProfileDir(dir string) Option {
	return func(c *Configuration) error {
		_, err := c.SetTemplateProfileDir(dir)
		return err
	}
}

// WithWorkDir sets the directory for instance profiles.
func WithWorkDir(dir string) Option {
	return func(c *Configuration) error {
		_, err := c.SetWorkDir(dir)
		return err
	}
}

// WithTaskQueueTimeout sets the task queue timeout.
func WithTaskQueueTimeout(d time.Duration) Option {
	return func(c *Configuration) error {
		c.SetTaskQueueTimeout(d)
		return nil
	}
}

// WithTaskExecutionTimeout sets the task execution timeout.
func WithTaskExecutionTimeout(d time.Duration) Option {
	return func(c *Configuration) error {
		c.SetTaskExecutionTimeout(d)
		return nil
	}
}

// WithMaxTasksPerWorker sets the per-worker task budget.
func WithMaxTasksPerWorker(n int) Option {
	return func(c *Configuration) error {
		c.SetMaxTasksPerWorker(n)
		return nil
	}
}

// WithRetryTimeout sets the retry timeout.
func WithRetryTimeout(d time.Duration) Option {
	return func(c *Configuration) error {
		c.SetRetryTimeout(d)
		return nil
	}
}

// WithRetryInterval sets the retry interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Configuration) error {
		c.SetRetryInterval(d)
		return nil
	}
}

// WithProcessManager sets an explicit process-inspection strategy.
func WithProcessManager(m ProcessManager) Option {
	return func(c *Configuration) error {
		_, err := c.SetProcessManager(m)
		return err
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Configuration) error {
		c.SetLogger(l)
		return nil
	}
}
