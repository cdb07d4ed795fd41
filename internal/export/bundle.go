// Package export renders a project into a downloadable zip bundle: one
// standalone HTML document per page, the backend module if one was generated,
// and a short readme.
package export

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain"
	"server/pkg/zip"
)

const ArchiveFilename = "PromptEy_Project.zip"

const readmeText = "Thanks for using PromptEy!\nVisit us again soon."

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>%s</title>
    <style>%s</style>
  </head>
  <body>
    %s
    <script>%s</script>
  </body>
</html>`

// Bundle builds the zip archive for a project. Pages are emitted in sorted
// order so the same project always produces the same archive.
func Bundle(project *domain.Project) ([]byte, error) {
	if project == nil || len(project.Pages) == 0 {
		return nil, fmt.Errorf("project has no pages to export")
	}

	names := make([]string, 0, len(project.Pages))
	for name := range project.Pages {
		names = append(names, name)
	}
	sort.Strings(names)

	// Casers are stateful; build one per call.
	titleCaser := cases.Title(language.English)

	assets := make([]zip.Asset, 0, len(names)+2)
	for _, name := range names {
		page := project.Pages[name]
		doc := fmt.Sprintf(pageTemplate, titleCaser.String(name), page.CSS, page.HTML, page.JS)
		assets = append(assets, zip.Asset{
			Filename: name + ".html",
			Data:     []byte(strings.TrimSpace(doc)),
		})
	}

	if backend := strings.TrimSpace(project.BackendCode); backend != "" {
		assets = append(assets, zip.Asset{Filename: "backend_code.ts", Data: []byte(backend)})
	}
	assets = append(assets, zip.Asset{Filename: "README.txt", Data: []byte(readmeText)})

	return zip.Archive(assets)
}
