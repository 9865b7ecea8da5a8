package services

import "promptstudio/internal/models"

// ResolveReferences computes the templates to attach to a generation
// request: templates whose tag list intersects the selected tags, templates
// belonging to any selected bundle, and individually selected templates,
// deduplicated by id in first-seen order. Dangling bundle member ids and
// unknown individual ids are silently skipped.
func ResolveReferences(
	templates []models.PromptTemplate,
	bundles []models.TemplateBundle,
	selectedTags []string,
	selectedBundleIDs []string,
	selectedTemplateIDs []string,
) []models.PromptTemplate {
	byID := make(map[string]models.PromptTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	seen := make(map[string]bool)
	var resolved []models.PromptTemplate
	add := func(t models.PromptTemplate) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		resolved = append(resolved, t)
	}

	for _, t := range templates {
		for _, tag := range selectedTags {
			if t.HasTag(tag) {
				add(t)
				break
			}
		}
	}

	for _, bundleID := range selectedBundleIDs {
		for _, b := range bundles {
			if b.ID != bundleID {
				continue
			}
			for _, templateID := range b.TemplateIDs {
				if t, ok := byID[templateID]; ok {
					add(t)
				}
			}
		}
	}

	for _, templateID := range selectedTemplateIDs {
		if t, ok := byID[templateID]; ok {
			add(t)
		}
	}

	return resolved
}

// LiveBundleTemplates returns the bundle's member templates in bundle order
// with dangling ids filtered out.
func LiveBundleTemplates(bundle models.TemplateBundle, templates []models.PromptTemplate) []models.PromptTemplate {
	byID := make(map[string]models.PromptTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	var live []models.PromptTemplate
	for _, id := range bundle.TemplateIDs {
		if t, ok := byID[id]; ok {
			live = append(live, t)
		}
	}
	return live
}
