package http

import (
	"html/template"
	"net/http"
	"strconv"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Fetch Villages</title>
</head>
<body>
<h1>Fetch Villages</h1>
<form id="htmlForm" method="post" action="/scrape-html">
<label for="htmlInput">Paste HTML:</label>
<textarea id="htmlInput" name="htmlInput" rows="20" cols="100" required></textarea>
<br><br>
<input type="submit" value="Scrape">
</form>

<h2>Stored villages: <span id="villagesLength">{{.Count}}</span></h2>
<p id="status"></p>

<h2>Extracted Villages</h2>
<pre id="extractedVillages"></pre>

<script>
async function fetchVillagesData() {
	const response = await fetch('/extracted_villages.json');
	const villagesData = await response.json();
	document.getElementById('extractedVillages').textContent = JSON.stringify(villagesData, null, 2);
	document.getElementById('villagesLength').textContent = villagesData.length;
}

document.getElementById('htmlForm').onsubmit = async function(event) {
	event.preventDefault();
	const status = document.getElementById('status');
	try {
		const response = await fetch('/scrape-html', {
			method: 'POST',
			headers: {'Content-Type': 'application/json'},
			body: JSON.stringify({html: document.getElementById('htmlInput').value})
		});
		const result = await response.json();
		if (!response.ok) {
			status.textContent = 'Error: ' + result.error;
			return;
		}
		status.textContent = 'Extracted ' + result.villages.length + ', added ' + result.added + '.';
		fetchVillagesData();
	} catch (error) {
		status.textContent = 'Error: ' + error.message;
	}
};

fetchVillagesData();
</script>
</body>
</html>
`))

type indexData struct {
	Count string
}

// handleIndex renders the paste form with the stored record count, or N/A
// when the store cannot be read.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{Count: "N/A"}
	if records, err := s.RecordService.FindRecords(r.Context()); err != nil {
		s.Logger.Warn("failed to count records", "err", err, "request_id", RequestIDFromContext(r.Context()))
	} else {
		data.Count = strconv.Itoa(len(records))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.Logger.Error("failed to render index", "err", err)
	}
}
