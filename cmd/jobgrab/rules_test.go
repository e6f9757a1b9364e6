package main_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	main "github.com/AndreyKolygin/jobgrab/cmd/jobgrab"
	"github.com/AndreyKolygin/jobgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesAddCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates a css rule from the selector flag", func(t *testing.T) {
		t.Parallel()

		var created *jobgrab.SiteRule
		deps, stdout, _ := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			CreateSiteRuleFn: func(_ context.Context, sr *jobgrab.SiteRule) error {
				sr.ID = "rule-1"
				created = sr
				return nil
			},
		}

		cmd := &main.RulesAddCmd{Host: "*.lever.co", Inactive: true, Position: 3}
		cmd.Selector = ".posting-page"
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, created)
		assert.Equal(t, "*.lever.co", created.Host)
		assert.Equal(t, jobgrab.StrategyCSS, created.Rule.Strategy)
		assert.Equal(t, ".posting-page", created.Rule.Selector)
		assert.Equal(t, 3, created.Position)
		require.NotNil(t, created.Active)
		assert.False(t, *created.Active)
		assert.Equal(t, "Added rule rule-1 for *.lever.co\n", stdout.String())
	})

	t.Run("creates a template rule from a JSON file", func(t *testing.T) {
		t.Parallel()

		var created *jobgrab.SiteRule
		deps, _, _ := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			CreateSiteRuleFn: func(_ context.Context, sr *jobgrab.SiteRule) error {
				created = sr
				return nil
			},
		}

		cmd := &main.RulesAddCmd{Host: "example.com"}
		cmd.Rule = writeFile(t, "rule.json", `{"strategy":"template","template":"{{title}}","templateToJob":true}`)
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, created)
		assert.Equal(t, jobgrab.StrategyTemplate, created.Rule.Strategy)
		assert.Equal(t, "{{title}}", created.Rule.Template)
		assert.True(t, created.Rule.TemplateToJob)
	})

	t.Run("requires a rule", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.RulesAddCmd{Host: "example.com"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, jobgrab.EINVALID, jobgrab.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--selector or --rule required")
	})

	t.Run("rejects a rule file without a rule", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		cmd := &main.RulesAddCmd{Host: "example.com"}
		cmd.Rule = writeFile(t, "rule.yaml", "[]\n")
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, jobgrab.EINVALID, jobgrab.ErrorCode(err))
	})

	t.Run("rejects a rule file with only metadata", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		cmd := &main.RulesAddCmd{Host: "example.com"}
		cmd.Rule = writeFile(t, "rule.yaml", "strategy: css
templateToJob: true
")
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, jobgrab.EINVALID, jobgrab.ErrorCode(err))
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			CreateSiteRuleFn: func(context.Context, *jobgrab.SiteRule) error {
				return jobgrab.Errorf(jobgrab.EINVALID, "site rule host required")
			},
		}

		cmd := &main.RulesAddCmd{Host: " "}
		cmd.Selector = ".x"
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: site rule host required")
	})
}

func TestRulesListCmd_Run(t *testing.T) {
	t.Parallel()

	inactive := false
	rules := []*jobgrab.SiteRule{
		{ID: "a", Host: "*.lever.co", Position: 1, Rule: jobgrab.Rule{Strategy: jobgrab.StrategyCSS, Selector: ".posting-page"}},
		{ID: "b", Pattern: "example.com", Position: 2, Active: &inactive, Rule: jobgrab.Rule{
			Strategy: jobgrab.StrategyChain,
			Chain:    []jobgrab.ChainStep{{Selector: "main"}, {Selector: ".job"}},
		}},
	}

	t.Run("lists rules in order", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			FindSiteRulesFn: func(_ context.Context, filter jobgrab.SiteRuleFilter) ([]*jobgrab.SiteRule, error) {
				assert.Nil(t, filter.Active)
				return rules, nil
			},
		}

		require.NoError(t, (&main.RulesListCmd{}).Run(deps))

		assert.Equal(t,
			"a  1  *.lever.co  css: .posting-page\n"+
				"b  2  example.com  chain: main > .job  (inactive)\n",
			stdout.String())
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			FindSiteRulesFn: func(context.Context, jobgrab.SiteRuleFilter) ([]*jobgrab.SiteRule, error) {
				return rules, nil
			},
		}

		require.NoError(t, (&main.RulesListCmd{JSON: true}).Run(deps))

		var got []jobgrab.SiteRule
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("shows a hint when there are no rules", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.SiteRules = noSiteRules()

		require.NoError(t, (&main.RulesListCmd{}).Run(deps))

		assert.Contains(t, stdout.String(), "jobgrab rules add")
	})
}

func TestRulesDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes the rule", func(t *testing.T) {
		t.Parallel()

		var deleted string
		deps, stdout, _ := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			DeleteSiteRuleFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		require.NoError(t, (&main.RulesDeleteCmd{ID: "rule-1"}).Run(deps))

		assert.Equal(t, "rule-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted rule rule-1")
	})

	t.Run("reports an unknown rule", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			DeleteSiteRuleFn: func(context.Context, string) error {
				return jobgrab.Errorf(jobgrab.ENOTFOUND, "site rule not found")
			},
		}

		err := (&main.RulesDeleteCmd{ID: "nope"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: site rule not found")
	})
}

func TestRulesEnableCmd_Run(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		off  bool
		want string
	}{
		{name: "enables a rule", want: "Enabled rule r\n"},
		{name: "disables a rule", off: true, want: "Disabled rule r\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var upd jobgrab.SiteRuleUpdate
			deps, stdout, _ := newDeps()
			deps.SiteRules = &mock.SiteRuleService{
				UpdateSiteRuleFn: func(_ context.Context, id string, u jobgrab.SiteRuleUpdate) (*jobgrab.SiteRule, error) {
					assert.Equal(t, "r", id)
					upd = u
					return &jobgrab.SiteRule{ID: id}, nil
				},
			}

			require.NoError(t, (&main.RulesEnableCmd{ID: "r", Off: tt.off}).Run(deps))

			require.NotNil(t, upd.Active)
			assert.Equal(t, !tt.off, *upd.Active)
			assert.Nil(t, upd.Rule)
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestRulesImportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates every usable record from a JSON list", func(t *testing.T) {
		t.Parallel()

		var created []*jobgrab.SiteRule
		deps, stdout, _ := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			CreateSiteRuleFn: func(_ context.Context, sr *jobgrab.SiteRule) error {
				created = append(created, sr)
				return nil
			},
		}

		file := writeFile(t, "rules.json", `[{"id": "a", "host": "jobs.example.com", "selector": ".job", "active": false},
 {"pattern": "legacy.example.com", "selector": "#posting"},
 42]`)
		require.NoError(t, (&main.RulesImportCmd{File: file}).Run(deps))

		require.Len(t, created, 2)
		assert.Equal(t, "a", created[0].ID)
		require.NotNil(t, created[0].Active)
		assert.False(t, *created[0].Active)
		assert.Equal(t, "legacy.example.com", created[1].Pattern)
		assert.Equal(t, "#posting", created[1].Rule.Selector)
		assert.Equal(t, "Imported 2 rules, skipped 1\n", stdout.String())
	})

	t.Run("skips existing IDs unless replacing", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "rules.yaml", "- id: a\n  host: jobs.example.com\n  selector: .new\n")
		conflict := func(context.Context, *jobgrab.SiteRule) error {
			return jobgrab.Errorf(jobgrab.ECONFLICT, "site rule a already exists")
		}

		deps, stdout, stderr := newDeps()
		deps.SiteRules = &mock.SiteRuleService{CreateSiteRuleFn: conflict}

		require.NoError(t, (&main.RulesImportCmd{File: file}).Run(deps))
		assert.Equal(t, "Imported 0 rules, skipped 1\n", stdout.String())
		assert.Contains(t, stderr.String(), "already exists")

		var upd jobgrab.SiteRuleUpdate
		deps, stdout, _ = newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			CreateSiteRuleFn: conflict,
			UpdateSiteRuleFn: func(_ context.Context, id string, u jobgrab.SiteRuleUpdate) (*jobgrab.SiteRule, error) {
				assert.Equal(t, "a", id)
				upd = u
				return &jobgrab.SiteRule{ID: id}, nil
			},
		}

		require.NoError(t, (&main.RulesImportCmd{File: file, Replace: true}).Run(deps))
		assert.Equal(t, "Imported 1 rules, skipped 0\n", stdout.String())
		require.NotNil(t, upd.Rule)
		assert.Equal(t, ".new", upd.Rule.Selector)
		require.NotNil(t, upd.Host)
		assert.Equal(t, "jobs.example.com", *upd.Host)
	})

	t.Run("skips records that carry no rule", func(t *testing.T) {
		t.Parallel()

		var created []*jobgrab.SiteRule
		deps, stdout, stderr := newDeps()
		deps.SiteRules = &mock.SiteRuleService{
			CreateSiteRuleFn: func(_ context.Context, sr *jobgrab.SiteRule) error {
				created = append(created, sr)
				return nil
			},
		}

		file := writeFile(t, "rules.yaml", "- host: example.com
- host: example.com
  selector: .job
")
		require.NoError(t, (&main.RulesImportCmd{File: file}).Run(deps))

		require.Len(t, created, 1)
		assert.Equal(t, ".job", created[0].Rule.Selector)
		assert.Contains(t, stderr.String(), "skip record 1")
		assert.Equal(t, "Imported 1 rules, skipped 1\n", stdout.String())
	})

	t.Run("rejects a file that is not a list", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		err := (&main.RulesImportCmd{File: writeFile(t, "rules.yaml", "selector: .job\n")}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, jobgrab.EINVALID, jobgrab.ErrorCode(err))
	})
}

func TestRulesMatchCmd_Run(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := newDeps()
	deps.SiteRules = &mock.SiteRuleService{
		FindSiteRulesFn: func(context.Context, jobgrab.SiteRuleFilter) ([]*jobgrab.SiteRule, error) {
			return []*jobgrab.SiteRule{
				{ID: "gh", Host: "boards.greenhouse.io", Rule: jobgrab.Rule{Strategy: jobgrab.StrategyCSS, Selector: "#content"}},
			}, nil
		},
	}

	require.NoError(t, (&main.RulesMatchCmd{URL: "https://boards.greenhouse.io/acme/jobs/1"}).Run(deps))
	require.NoError(t, (&main.RulesMatchCmd{URL: "https://example.com/"}).Run(deps))

	assert.Equal(t,
		"gh  boards.greenhouse.io  css: #content\n"+
			"No site rule matches https://example.com/\n",
		stdout.String())
}
