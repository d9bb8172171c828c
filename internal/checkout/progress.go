package checkout

// チェックアウトの3ステップ（順序固定）
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// 表示順
var Steps = []Step{StepShipping, StepPayment, StepReview}

type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusCurrent   StepStatus = "current"
	StepStatusUpcoming  StepStatus = "upcoming"
)

// 各ステップの状態を返す。
// completedに入っているステップはcurrentと同じでも「completed」（completed優先）。
// 未知のcurrentはどのステップにも一致せず、全ステップがcompleted/upcomingになる
func StepStatuses(current Step, completed []Step) map[Step]StepStatus {
	done := make(map[Step]bool, len(completed))
	for _, s := range completed {
		done[s] = true
	}

	out := make(map[Step]StepStatus, len(Steps))
	for _, s := range Steps {
		switch {
		case done[s]:
			out[s] = StepStatusCompleted
		case s == current:
			out[s] = StepStatusCurrent
		default:
			out[s] = StepStatusUpcoming
		}
	}

	return out
}
