package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	Run   string // Experiment run id
	Index int
	Seed  uint64
	GameMetric
}

type PlayerRecord struct {
	Run string
	PlayerMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<timestamp>-<run> and writes every file there.
func NewWriter(root, run string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, timestamp+"-"+run)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"run", "index", "seed", "game_id", "players", "winner", "days", "actions", "fallbacks", "completed", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Run,
			strconv.Itoa(record.Index),
			strconv.FormatUint(record.Seed, 10),
			record.GameID,
			strconv.Itoa(record.Players),
			record.Winner,
			strconv.Itoa(record.Days),
			strconv.Itoa(record.Actions),
			strconv.Itoa(record.Fallbacks),
			strconv.FormatBool(record.Completed),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("games.csv", header, rows)
}

func (w *Writer) WritePlayerRecords(records []PlayerRecord) error {
	header := []string{"run", "game_id", "seat", "player_id", "name", "agent", "won", "hand_fish", "mounted_fish", "fishbucks", "total", "regret_value", "regret_count", "forfeited_mount"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Run,
			record.GameID,
			strconv.Itoa(record.Seat),
			record.PlayerID,
			record.Name,
			record.Agent,
			strconv.FormatBool(record.Won),
			strconv.Itoa(record.HandFish),
			strconv.Itoa(record.MountedFish),
			strconv.Itoa(record.Fishbucks),
			strconv.Itoa(record.Total),
			strconv.Itoa(record.RegretValue),
			strconv.Itoa(record.RegretCount),
			strconv.Itoa(record.ForfeitedMount),
		})
	}
	return w.write("players.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
