package config

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RenderYAML renders c as a commented YAML document. Both `config init`
// and `config show` use it, so a written file round-trips through Load.
func RenderYAML(c Config) ([]byte, error) {
	collector := newMap().
		put("backend", c.Collector.Backend, "notesdb | script").
		put("folder", c.Collector.Folder, "").
		put("notes_db", c.Collector.NotesDB, "empty: Apple Notes group container").
		put("script_command", append([]string{}, c.Collector.ScriptCommand...),
			"argv; empty: built-in osascript exporter")

	notifier := newMap().
		put("backend", c.Notifier.Backend, "osascript | log")

	root := newMap().
		put("data_dir", c.DataDir, "empty: platform data directory").
		put("state_file", c.StateFile, "empty: <data_dir>/state.json").
		put("log_level", c.LogLevel, "").
		put("log_file", c.LogFile, "empty: <data_dir>/nudge.log").
		put("check_interval", yamlDuration(c.CheckInterval), "").
		put("reminder_spacing", yamlDuration(c.ReminderSpacing), "minimum gap between any two reminders").
		put("task_cooldown", yamlDuration(c.TaskCooldown), "quiet period per task after a reminder").
		put("debug_notes", c.DebugNotes, "").
		put("collector", collector, "").
		put("notifier", notifier, "")

	for _, b := range []*mapBuilder{collector, notifier, root} {
		if b.err != nil {
			return nil, b.err
		}
	}
	return yaml.Marshal(root.node)
}

type mapBuilder struct {
	node *yaml.Node
	err  error
}

func newMap() *mapBuilder {
	return &mapBuilder{node: &yaml.Node{Kind: yaml.MappingNode}}
}

func (b *mapBuilder) put(key string, value any, comment string) *mapBuilder {
	if b.err != nil {
		return b
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	v := &yaml.Node{}
	if sub, ok := value.(*mapBuilder); ok {
		if sub.err != nil {
			b.err = sub.err
			return b
		}
		v = sub.node
	} else if err := v.Encode(value); err != nil {
		b.err = err
		return b
	}
	if comment != "" {
		v.LineComment = comment
	}
	b.node.Content = append(b.node.Content, k, v)
	return b
}

// yamlDuration trims the zero tail Duration.String adds, so the
// rendered file says 45m rather than 45m0s.
func yamlDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
