package widgets

import "github.com/1broseidon/deskshell/internal/model"

// Factories returns the construction table for every widget kind.
func Factories(host Host) map[model.Kind]model.Factory {
	return map[model.Kind]model.Factory{
		model.KindPanel:       func(name string, parent model.Model) model.Model { return NewPanel(host, name, parent) },
		model.KindTasks:       func(name string, parent model.Model) model.Model { return NewTasks(host, name, parent) },
		model.KindTask:        func(name string, parent model.Model) model.Model { return NewTask(host, name, parent) },
		model.KindDashButton:  func(name string, parent model.Model) model.Model { return NewDashButton(host, name, parent) },
		model.KindVolume:      func(name string, parent model.Model) model.Model { return NewVolume(host, name, parent) },
		model.KindNetwork:     func(name string, parent model.Model) model.Model { return NewNetwork(host, name, parent) },
		model.KindDate:        func(name string, parent model.Model) model.Model { return NewDate(host, name, parent) },
		model.KindMediaPlayer: func(name string, parent model.Model) model.Model { return NewMediaPlayer(host, name, parent) },
	}
}
