package model

import "fmt"

// Kind is the closed set of model types a store group can declare in its
// Type key.
type Kind int

const (
	KindPanel Kind = iota + 1
	KindTasks
	KindTask
	KindDashButton
	KindVolume
	KindNetwork
	KindDate
	KindMediaPlayer
)

var kindNames = map[Kind]string{
	KindPanel:       "Panel",
	KindTasks:       "Tasks",
	KindTask:        "Task",
	KindDashButton:  "DashButton",
	KindVolume:      "Volume",
	KindNetwork:     "Network",
	KindDate:        "Date",
	KindMediaPlayer: "MediaPlayer",
}

// ParseKind maps a Type tag to a Kind. Tags are case-sensitive.
func ParseKind(tag string) (Kind, bool) {
	for k, name := range kindNames {
		if name == tag {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RequiredParent returns the kind a child model must be resolved under.
// ok is false for top-level kinds.
func (k Kind) RequiredParent() (parent Kind, ok bool) {
	if k == KindTask {
		return KindTasks, true
	}
	return 0, false
}
