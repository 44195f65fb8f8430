/*
Copyright © 2022 the l1b authors.
This file is part of l1b.

l1b is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

l1b is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with l1b.  If not, see <http://www.gnu.org/licenses/>.
*/

package l1butil

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/ctessum/gobra"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// webAddress is where the configuration web page is served.
const webAddress = "localhost:7171"

// configHandler returns a handler that reads the configuration file given
// by the "config" form value and responds with the resulting settings
// as JSON.
func (cfg *Cfg) configHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		configFile := r.Form.Get("config")
		cfg.Root.PersistentFlags().Set("config", configFile)
		if err := cfg.setConfig(); err != nil {
			http.Error(w, err.Error(), http.StatusNoContent)
			return
		}
		config := make(map[string]interface{})
		for _, option := range cfg.options {
			config[option.name] = cfg.Get(option.name)
		}
		e := json.NewEncoder(w)
		if err := e.Encode(config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

// StartWebServer starts a web page for filling in configuration options
// and running commands.
func (cfg *Cfg) StartWebServer() {
	cfg.setConfig() // Ignore any errors for now.

	http.HandleFunc("/setConfig", cfg.configHandler())

	cfg.Log.Info("l1b: loading front-end")

	for _, cmd := range []*cobra.Command{cfg.Root, cfg.versionCmd, cfg.infoCmd, cfg.bandsCmd,
		cfg.calibrateCmd, cfg.quicklookCmd, cfg.subsetCmd} {
		cmd.SilenceUsage = true // We don't want the usage messages in the GUI.
	}

	const tmpl = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>l1b</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] code { font-weight: bold; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; outline:none; }
	</style>
</head>
<body>
<div class="container">
	<h1>l1b</h1>
	<p>Choose a swath file and a band below.</p>
	<div>
		{{.}}
	</div>
</div>
<script>
let allFlags = [...document.querySelectorAll('[data-name]')];
let configInput = allFlags.filter(x => x.dataset.name == "config")[0].children[0];
configInput.addEventListener("input", e => {
	fetch("http://` + webAddress + `/setConfig?config="+configInput.value)
		.then(res => {
			if (res.status !== 200) return;
			res.json().then(data => {
				for (let key in data)
					for (let f of allFlags)
						if (f.dataset.name == key)
							f.children[0].value = JSON.stringify(data[key]).replace(/^"+|"+$/g,'');
			})
		})
		.catch(err => console.log("Error fetching /setConfig", err))
})
</script>
</body>
</html>`

	output := template.Must(template.New("").Parse(tmpl))
	server := gobra.Server{Root: cfg.Root, ServerAddress: webAddress, AllowCORS: false, HTML: output}
	cfg.Log.WithField("address", webAddress).Info("l1b: server starting")
	open.Run("http://" + webAddress)
	fmt.Printf("If not opened automatically, please visit http://%s\n", webAddress)
	server.Start()
}
