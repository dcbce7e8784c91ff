package doctor

import (
	"commitscope/internal/hook"
	"commitscope/internal/monorepo"
)

type Finding struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Report struct {
	Healthy    bool      `json:"healthy"`
	Root       string    `json:"root"`
	ConfigPath string    `json:"configPath,omitempty"`
	Monorepo   string    `json:"monorepo"`
	Descriptor string    `json:"descriptor,omitempty"`
	Patterns   []string  `json:"patterns,omitempty"`
	Packages   int       `json:"packages"`
	Hook       string    `json:"hook"`
	Findings   []Finding `json:"findings"`
}

type Service struct {
	Root       string
	HooksDir   string
	ConfigPath string
	ConfigErr  error
	Monorepo   *monorepo.Monorepo
}

func (s *Service) Run() Report {
	findings := []Finding{}
	report := Report{Root: s.Root, ConfigPath: s.ConfigPath, Monorepo: string(monorepo.KindNone)}

	if s.ConfigErr != nil {
		findings = append(findings, Finding{Code: "CFG_INVALID", Level: "error", Message: s.ConfigErr.Error()})
	}

	if !s.Monorepo.Configured() {
		findings = append(findings, Finding{
			Code:    "MONOREPO_NONE",
			Level:   "warn",
			Message: "no valid lerna.json, pnpm-workspace.yaml or package.json workspaces at " + s.Root + "; scopes will always be empty",
		})
	} else {
		report.Monorepo = string(s.Monorepo.Kind)
		report.Descriptor = s.Monorepo.Descriptor
		report.Patterns = s.Monorepo.Patterns
		pkgs, err := s.Monorepo.Packages()
		if err != nil {
			findings = append(findings, Finding{Code: "MONOREPO_GLOB", Level: "error", Message: err.Error()})
		}
		report.Packages = len(pkgs)
		if err == nil && len(pkgs) == 0 {
			findings = append(findings, Finding{Code: "MONOREPO_EMPTY", Level: "warn", Message: "package globs match no directory with a named package.json"})
		}
		dirs := map[string]string{}
		for _, p := range pkgs {
			if other, ok := dirs[p.Name]; ok {
				findings = append(findings, Finding{
					Code:    "PKG_DUPLICATE_NAME",
					Level:   "warn",
					Message: "scope " + p.Name + " is declared by both " + other + " and " + p.Dir,
				})
				continue
			}
			dirs[p.Name] = p.Dir
		}
	}

	state, err := hook.Inspect(s.HooksDir)
	switch {
	case err != nil:
		report.Hook = "unknown"
		findings = append(findings, Finding{Code: "HOOK_UNREADABLE", Level: "error", Message: err.Error()})
	case state == hook.StateMissing:
		report.Hook = string(state)
		findings = append(findings, Finding{Code: "HOOK_MISSING", Level: "info", Message: "run 'commitscope hook install' to fill scopes on every commit"})
	case state == hook.StateUnmanaged:
		report.Hook = string(state)
		findings = append(findings, Finding{Code: "HOOK_UNMANAGED", Level: "warn", Message: hook.Path(s.HooksDir) + " exists and was not written by commitscope"})
	default:
		report.Hook = string(state)
	}

	healthy := true
	for _, f := range findings {
		if f.Level == "error" {
			healthy = false
			break
		}
	}
	report.Healthy = healthy
	report.Findings = findings
	return report
}
