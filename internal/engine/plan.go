package engine

import "context"

// Plan locates the project, loads its configuration and returns the
// pipeline a publish run would execute. Nothing is executed.
func (e *Engine) Plan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	proj, err := e.loadProject(req.CWD)
	if err != nil {
		return nil, err
	}
	plan, err := e.buildPlan(proj, req.Checks)
	if err != nil {
		return nil, err
	}
	return &PlanResult{
		Paths:  *proj.paths,
		Config: proj.config,
		Plan:   plan,
	}, nil
}
