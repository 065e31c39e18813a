package compose

import (
	"fmt"

	"github.com/ByLCY/devscene/device"
)

// State 是单个视图的组合进度，严格按顺序推进，不可回退。
type State int

const (
	Pending State = iota
	FaceBuilt
	EnclosureBuilt
	ModulesComposed
	Attached
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case FaceBuilt:
		return "FaceBuilt"
	case EnclosureBuilt:
		return "EnclosureBuilt"
	case ModulesComposed:
		return "ModulesComposed"
	case Attached:
		return "Attached"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText lets reports serialize states by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Stage names the step at which a contained failure happened.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageNormalize Stage = "normalize"
	StageRender    Stage = "render"
	StageFit       Stage = "fit"
	StageLabel     Stage = "label"
	StageModule    Stage = "module"
)

// Issue 记录一次被隔离的失败：视图或模块被跳过，或某个面缺失。
type Issue struct {
	Subject string `json:"subject"`
	// Module 为出错模块的 ToolTip，视图级失败为空。
	Module  string `json:"module,omitempty"`
	Stage   Stage  `json:"stage"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

func newIssue(subject string, stage Stage, err error) Issue {
	return Issue{Subject: subject, Stage: stage, Err: err, Message: err.Error()}
}

// ViewReport summarizes one view of the device.
type ViewReport struct {
	Face    device.Face `json:"face"`
	Tooltip string      `json:"tooltip"`
	State   State       `json:"state"`
	Modules int         `json:"modules"`
	Issues  []Issue     `json:"issues,omitempty"`
}

// advance moves the report to next, which must be the immediate successor.
func (r *ViewReport) advance(next State) {
	if next != r.State+1 {
		panic(fmt.Sprintf("视图 %s 状态不能从 %s 跳到 %s", r.Face, r.State, next))
	}
	r.State = next
}
