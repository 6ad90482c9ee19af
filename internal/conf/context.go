package conf

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/observability"
)

// Context holds the state shared by the commands of one invocation: the
// viper instance flags are bound to, the loaded settings and the run ID.
type Context struct {
	Viper      *viper.Viper
	ConfigFile string
	Settings   *Settings
	RunID      string
	StartedAt  time.Time
	Fs         afero.Fs               // report output filesystem
	Metrics    *observability.Metrics // nil when metrics are not collected

	closers []func()
}

// NewContext creates a context with a fresh run ID. Settings stay nil
// until Load is called.
func NewContext(v *viper.Viper) *Context {
	if v == nil {
		v = viper.New()
	}
	return &Context{
		Viper:     v,
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Fs:        afero.NewOsFs(),
	}
}

// OnClose registers fn to run when the invocation ends.
func (c *Context) OnClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close runs the registered closers in reverse order.
func (c *Context) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Load reads and validates the settings, after flags have been parsed.
func (c *Context) Load() error {
	settings, err := Load(c.Viper, c.ConfigFile)
	if err != nil {
		return err
	}
	c.Settings = settings
	return nil
}

// settingAnnotation marks a flag with the settings key it overrides.
const settingAnnotation = "labelgap_setting"

// MarkFlags records the settings key each named flag overrides. Keys are
// bound by BindFlags once the command to run is known, so commands may
// share a key.
func MarkFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		if err := flags.SetAnnotation(name, settingAnnotation, []string{key}); err != nil {
			return errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("flag", name).
				Build()
		}
	}
	return nil
}

// BindFlags binds every flag of flags marked by MarkFlags to its key.
func (c *Context) BindFlags(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[settingAnnotation]
		if len(keys) == 0 {
			return
		}
		if err := c.Viper.BindPFlag(keys[0], f); err != nil {
			errs = append(errs, errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("flag", f.Name).
				Build())
		}
	})
	return errors.Join(errs...)
}
