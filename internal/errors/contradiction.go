package errors

// Contradictory is documentation, not a type: tallying returning an empty
// constraint-set-set is a valid, ordinary result meaning "no substitution
// satisfies these constraints." It is never wrapped as an error and the
// engine never raises one for it; a caller distinguishes "no solution" from
// "the query itself failed" by checking len(result) == 0 versus a non-nil
// error return (ErrUndecidable or a *Report).
