package store

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ayoisaiah/toolbox/internal/models"
)

// Backup is the portable form of every persisted record.
type Backup struct {
	TimerState  *models.Snapshot      `yaml:"timer_state,omitempty"`
	Preferences models.Preferences    `yaml:"preferences"`
	History     []models.HistoryEntry `yaml:"history"`
	Stats       models.Statistics     `yaml:"stats"`
}

// Export writes all records to w as YAML.
func (g *Gateway) Export(w io.Writer) error {
	b := Backup{
		Preferences: g.LoadPreferences(),
		History:     g.LoadHistory(),
		Stats:       g.LoadStats(),
	}

	// an empty session type means no snapshot is stored
	if s := g.LoadTimerState(models.Snapshot{}); s.SessionType != "" {
		b.TimerState = &s
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(b); err != nil {
		return errExport.Wrap(err)
	}

	return enc.Close()
}

// Import replaces the stored records with those decoded from r. The timer
// snapshot is only replaced when the backup carries one.
func (g *Gateway) Import(r io.Reader) error {
	var b Backup

	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		return errImport.Wrap(err)
	}

	if len(b.History) > MaxHistoryEntries {
		b.History = b.History[len(b.History)-MaxHistoryEntries:]
	}

	if b.TimerState != nil {
		b.TimerState.IsRunning = false
		g.SaveTimerState(*b.TimerState)
	}

	g.SavePreferences(b.Preferences)
	g.SaveHistory(b.History)
	g.SaveStats(b.Stats)

	return nil
}
