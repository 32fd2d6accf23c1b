package types

import "fmt"

type AgentConfig struct {
	Episodes int
	// Horizon caps the steps per episode on the agent side, 0 leaves it to the environment
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes, stops at the first failing episode
func (a *Agent) Run() error {
	for i := 0; i < a.config.Episodes; i++ {
		eCtx := NewEpisodeContext(nil, i, "")
		a.RunEpisode(eCtx)
		a.traces[i] = eCtx.Trace
		if eCtx.Err != nil {
			return fmt.Errorf("episode %d: %w", i, eCtx.Err)
		}
	}
	return nil
}

// Traces collected by Run
func (a *Agent) Traces() []*Trace {
	return a.traces
}

// RunEpisode runs a single episode, the outcome is stored in eCtx
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	obs, err := a.environment.Reset()
	if err != nil {
		eCtx.SetError(fmt.Errorf("reset: %w", err))
		return
	}
	space := a.environment.ActionSpace()

	for i := 0; a.config.Horizon <= 0 || i < a.config.Horizon; i++ {
		if eCtx.Context != nil && eCtx.Context.Err() != nil {
			eCtx.SetError(eCtx.Context.Err())
			return
		}
		action, ok := a.policy.NextAction(i, obs, space)
		if !ok {
			break
		}
		res, err := a.environment.Step(action)
		if err != nil {
			eCtx.SetError(fmt.Errorf("step %d: %w", i, err))
			return
		}
		a.policy.Update(i, obs, action, res.Reward, res.Observation, res.Done)

		eCtx.Trace.Append(i, obs, action, res.Reward, res.Observation)
		eCtx.Timesteps += 1
		eCtx.Reward += res.Reward
		obs = res.Observation
		if res.Done {
			eCtx.Terminal = true
			break
		}
	}
	if !eCtx.Terminal && a.config.Horizon > 0 && eCtx.Timesteps >= a.config.Horizon {
		eCtx.HorizonEnd = true
	}
	a.policy.UpdateIteration(eCtx.Episode, eCtx.Trace)
}
