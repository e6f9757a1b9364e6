package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"gopkg.in/yaml.v3"
)

// Run executes the rules add command.
func (c *RulesAddCmd) Run(deps *Dependencies) error {
	raw, err := c.flagRule()
	if err == nil && raw == nil {
		err = jobgrab.Errorf(jobgrab.EINVALID, "--selector or --rule required")
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	sr := &jobgrab.SiteRule{
		Host:     c.Host,
		Rule:     *jobgrab.NormalizeRule(raw),
		Position: c.Position,
	}
	if c.Inactive {
		active := false
		sr.Active = &active
	}
	if err := deps.SiteRules.CreateSiteRule(deps.Ctx, sr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added rule %s for %s\n", sr.ID, sr.Host)
	return nil
}

// Run executes the rules list command.
func (c *RulesListCmd) Run(deps *Dependencies) error {
	rules, err := deps.SiteRules.FindSiteRules(deps.Ctx, jobgrab.SiteRuleFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if rules == nil {
			rules = []*jobgrab.SiteRule{}
		}
		return writeJSON(deps.Stdout, rules)
	}
	if len(rules) == 0 {
		fmt.Fprintln(deps.Stdout, "No site rules found. Use 'jobgrab rules add' to create one.")
		return nil
	}

	for _, r := range rules {
		line := fmt.Sprintf("%s  %d  %s  %s", r.ID, r.Position, ruleHost(r), describeRule(&r.Rule))
		if !r.IsActive() {
			line += "  (inactive)"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}

// Run executes the rules delete command.
func (c *RulesDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.SiteRules.DeleteSiteRule(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted rule %s\n", c.ID)
	return nil
}

// Run executes the rules enable command.
func (c *RulesEnableCmd) Run(deps *Dependencies) error {
	active := !c.Off
	if _, err := deps.SiteRules.UpdateSiteRule(deps.Ctx, c.ID, jobgrab.SiteRuleUpdate{Active: &active}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	state := "Enabled"
	if !active {
		state = "Disabled"
	}
	fmt.Fprintf(deps.Stdout, "%s rule %s\n", state, c.ID)
	return nil
}

// Run executes the rules import command.
func (c *RulesImportCmd) Run(deps *Dependencies) error {
	records, err := readRuleRecords(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	var imported, skipped int
	for i, rec := range records {
		m, ok := rec.(map[string]any)
		var sr *jobgrab.SiteRule
		if ok {
			sr = jobgrab.SiteRuleFromMap(m)
		}
		if sr == nil {
			fmt.Fprintf(deps.Stderr, "skip record %d: no usable rule\n", i+1)
			skipped++
			continue
		}

		err := deps.SiteRules.CreateSiteRule(deps.Ctx, sr)
		if jobgrab.ErrorCode(err) == jobgrab.ECONFLICT && c.Replace {
			host := sr.Host
			if host == "" {
				host = sr.Pattern
			}
			_, err = deps.SiteRules.UpdateSiteRule(deps.Ctx, sr.ID, jobgrab.SiteRuleUpdate{
				Host:   &host,
				Active: sr.Active,
				Rule:   &sr.Rule,
			})
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "skip record %d: %s\n", i+1, jobgrab.ErrorMessage(err))
			skipped++
			continue
		}
		imported++
	}

	fmt.Fprintf(deps.Stdout, "Imported %d rules, skipped %d\n", imported, skipped)
	return nil
}

// readRuleRecords decodes a rules file: either a list of records or a
// mapping with a "rules" list.
func readRuleRecords(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "parse rules file %s: %v", path, err)
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["rules"].([]any); ok {
			return list, nil
		}
	case nil:
		return nil, nil
	}
	return nil, jobgrab.Errorf(jobgrab.EINVALID, "rules file %s must hold a list of rules", path)
}

// Run executes the rules match command.
func (c *RulesMatchCmd) Run(deps *Dependencies) error {
	match, err := siteRule(deps.Ctx, deps.SiteRules, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	if match == nil {
		fmt.Fprintf(deps.Stdout, "No site rule matches %s\n", c.URL)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", match.ID, ruleHost(match), describeRule(&match.Rule))
	return nil
}

func ruleHost(r *jobgrab.SiteRule) string {
	if r.Host != "" {
		return r.Host
	}
	return r.Pattern
}

// describeRule summarizes a rule on one line.
func describeRule(r *jobgrab.Rule) string {
	switch r.Strategy {
	case jobgrab.StrategyChain:
		sels := make([]string, 0, len(r.Chain))
		for _, step := range r.Chain {
			sels = append(sels, step.Selector)
		}
		return "chain: " + strings.Join(sels, " > ")
	case jobgrab.StrategyTemplate:
		return fmt.Sprintf("template: %q", r.Template)
	}
	return fmt.Sprintf("%s: %s", r.Strategy, r.Selector)
}
