package gerrit

import (
	"fmt"
	"strings"

	"gerrit-reviewstats/internal/domain"
)

// ProjectsQuery возвращает условие запроса, выбирающее все подпроекты проекта.
// Проект без подпроектов ищется по собственному имени.
func ProjectsQuery(project *domain.Project) string {
	subprojects := project.Subprojects
	if len(subprojects) == 0 {
		subprojects = []string{project.Name}
	}

	terms := make([]string, len(subprojects))
	for i, p := range subprojects {
		terms[i] = "project:" + p
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// QueryCommand собирает команду gerrit query для одной страницы результатов.
// resume - продолжение выдачи ("resume_sortkey:..." или "--start N"), пусто для первой страницы.
func QueryCommand(project *domain.Project, opts domain.FetchOptions, resume string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "gerrit query %s --all-approvals --patch-sets --format JSON", ProjectsQuery(project))
	if opts.OnlyOpen {
		b.WriteString(" status:open")
	}
	if opts.Stable != "" {
		b.WriteString(" branch:stable/" + opts.Stable)
	}
	if resume != "" {
		b.WriteString(" " + resume)
	}
	return b.String()
}
