package expr

import "pagedb/internal/rangeset"

// ExtractIndex walks e, pulling out every Binary on the field named name and
// combining their constraints into a Range over uint64 (the primary-key
// domain). e itself is left unchanged: matched Binary nodes are replaced by
// EmptyExpr in the returned residual; every other node is preserved. And combines child
// ranges via intersection, Or via union; Empty contributes Full in an And
// context (the And identity) and Empty in an Or context (the Or identity).
func ExtractIndex(e Expression, name string) (Expression, *rangeset.Range[uint64]) {
	return e.extractIndex(name)
}

func (e And) extractIndex(name string) (Expression, *rangeset.Range[uint64]) {
	lResidual, lRange := extractOperand(e.Left, name, rangeset.Full[uint64]())
	rResidual, rRange := extractOperand(e.Right, name, rangeset.Full[uint64]())
	lRange.Intersection(rRange)
	return And{Left: lResidual, Right: rResidual}, lRange
}

func (e Or) extractIndex(name string) (Expression, *rangeset.Range[uint64]) {
	lResidual, lRange := extractOperand(e.Left, name, rangeset.Empty[uint64]())
	rResidual, rRange := extractOperand(e.Right, name, rangeset.Empty[uint64]())
	lRange.Union(rRange)
	return Or{Left: lResidual, Right: rResidual}, lRange
}

// extractOperand handles one child of an And/Or node. A bare Empty child
// contributes the operator's identity range directly (Full under And,
// Empty under Or) rather than the fixed range emptyExpr.extractIndex alone
// could supply, since Empty's identity depends on which operator holds it.
func extractOperand(e Expression, name string, identity rangeset.SimpleRange[uint64]) (Expression, *rangeset.Range[uint64]) {
	if _, ok := e.(emptyExpr); ok {
		return EmptyExpr, rangeset.New(identity)
	}
	return e.extractIndex(name)
}

func (e Binary) extractIndex(name string) (Expression, *rangeset.Range[uint64]) {
	if e.Left != name {
		return e, rangeset.New(rangeset.Full[uint64]())
	}
	return EmptyExpr, rangeset.FromComparisonRange(e.Op.toIndexComparison(), e.Right.U)
}

func (emptyExpr) extractIndex(string) (Expression, *rangeset.Range[uint64]) {
	return EmptyExpr, rangeset.New(rangeset.Full[uint64]())
}
