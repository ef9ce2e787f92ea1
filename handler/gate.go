package handler

type Gate interface {
	IsOperator(userID int64) bool
}

type operatorGate struct {
	operators map[int64]struct{}
}

func (g operatorGate) IsOperator(userID int64) bool {
	_, ok := g.operators[userID]
	return ok
}

// NewOperatorGate copies ids; later changes to the slice have no effect.
func NewOperatorGate(ids []int64) Gate {
	operators := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		operators[id] = struct{}{}
	}
	return operatorGate{operators: operators}
}
