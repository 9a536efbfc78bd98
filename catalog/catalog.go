package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed workshop.yaml
var workshopYAML []byte

type Task struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Points      int      `yaml:"points" json:"points"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Tags        []string `yaml:"tags" json:"tags"`
	Ordinal     int      `yaml:"-" json:"ordinal"` // 0-based position within the day
}

type Day struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Tasks       []Task `yaml:"tasks" json:"tasks"`
}

// Task returns the day's task with the given id.
func (d *Day) Task(taskID string) (Task, bool) {
	for _, t := range d.Tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return Task{}, false
}

// Catalog is the immutable workshop curriculum. It is safe for concurrent use.
type Catalog struct {
	Version string `yaml:"version" json:"version"`
	Days    []Day  `yaml:"days" json:"days"`

	dayIndex  map[int]int
	taskIndex map[string]int // task id -> day id
}

var (
	ErrEmptyCatalog = errors.New("catalog has no days")
	ErrDayNotFound  = errors.New("day not found")
	ErrTaskNotFound = errors.New("task not found")
)

// Load parses the embedded workshop curriculum.
func Load() (*Catalog, error) {
	return Parse(workshopYAML)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	if len(c.Days) == 0 {
		return ErrEmptyCatalog
	}

	c.dayIndex = make(map[int]int, len(c.Days))
	c.taskIndex = make(map[string]int)

	for i := range c.Days {
		day := &c.Days[i]
		if day.ID != i+1 {
			return fmt.Errorf("day at position %d has id %d, want %d", i, day.ID, i+1)
		}
		if len(day.Tasks) == 0 {
			return fmt.Errorf("day %d has no tasks", day.ID)
		}
		c.dayIndex[day.ID] = i

		for j := range day.Tasks {
			task := &day.Tasks[j]
			task.ID = strings.TrimSpace(task.ID)
			if task.ID == "" {
				return fmt.Errorf("day %d task %d has an empty id", day.ID, j)
			}
			if task.Points <= 0 {
				return fmt.Errorf("task %s must be worth a positive number of points", task.ID)
			}
			if owner, dup := c.taskIndex[task.ID]; dup {
				return fmt.Errorf("task id %s is used by day %d and day %d", task.ID, owner, day.ID)
			}
			task.Ordinal = j
			c.taskIndex[task.ID] = day.ID
		}
	}
	return nil
}

// Day returns the day with the given id.
func (c *Catalog) Day(id int) (*Day, error) {
	i, ok := c.dayIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrDayNotFound, id)
	}
	return &c.Days[i], nil
}

// Task returns the task with the given id inside day dayID.
func (c *Catalog) Task(dayID int, taskID string) (Task, error) {
	day, err := c.Day(dayID)
	if err != nil {
		return Task{}, err
	}
	task, ok := day.Task(taskID)
	if !ok {
		return Task{}, fmt.Errorf("%w: %s in day %d", ErrTaskNotFound, taskID, dayID)
	}
	return task, nil
}

// DayOf reports which day a task id belongs to.
func (c *Catalog) DayOf(taskID string) (int, bool) {
	id, ok := c.taskIndex[taskID]
	return id, ok
}

func (c *Catalog) TotalTasks() int {
	return len(c.taskIndex)
}
