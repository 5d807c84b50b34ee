package server

import (
	"html/template"
	"net/http"

	"github.com/wattai/wattai/internal/model"
)

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	GPUs               []model.GPUInfo
	DefaultElectricity float64
	DefaultHours       float64
	BenchmarkHours     float64
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		GPUs:               make([]model.GPUInfo, 0, h.catalog.Len()),
		DefaultElectricity: h.defaults.ElectricityCostUSD,
		DefaultHours:       h.defaults.Hours,
		BenchmarkHours:     h.defaults.BenchmarkHours,
	}
	for _, id := range h.catalog.IDs() {
		g, _ := h.catalog.Get(id)
		data.GPUs = append(data.GPUs, model.GPUInfo{ID: id, Watts: g.Watts, HourlyCostUSD: g.HourlyCostUSD})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render index", "error", err, "request_id", GetRequestID(r.Context()))
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>WattAI</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { margin-bottom: 0; }
  .sub { color: #666; margin-top: 0.25rem; }
  .banner { background: #f0f7f0; border: 1px solid #cde5cd; border-radius: 6px; padding: 0.75rem 1rem; margin: 1.5rem 0; }
  .banner.warn { background: #fdf6ec; border-color: #f0ddb8; }
  form { display: grid; gap: 0.75rem; margin-bottom: 1.5rem; }
  label { display: grid; gap: 0.25rem; font-size: 0.9rem; }
  input, select { padding: 0.4rem; font-size: 1rem; }
  button { padding: 0.5rem 1rem; font-size: 1rem; cursor: pointer; }
  .results { display: none; grid-template-columns: 1fr 1fr; gap: 1rem; }
  .card { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; }
  .card h3 { margin-top: 0; }
  .total { font-weight: bold; }
  .detail { color: #666; font-size: 0.85rem; }
  .verdict { margin-top: 1rem; font-weight: bold; }
  .error { color: #a33; margin-top: 1rem; }
</style>
</head>
<body>
<h1>&#9889; WattAI</h1>
<p class="sub">AI Cost Intelligence Calculator</p>

<div id="banner" class="banner">Loading cheapest option&hellip;</div>

<form id="form">
  <label>Electricity Cost (USD per kWh)
    <input type="number" id="electricity" min="0" step="0.01" value="{{.DefaultElectricity}}">
  </label>
  <label>GPU
    <select id="gpu">
      {{range .GPUs}}<option value="{{.ID}}">{{.ID}} ({{.Watts}} W, ${{.HourlyCostUSD}}/h cloud)</option>
      {{end}}
    </select>
  </label>
  <label>Hours of Usage
    <input type="number" id="hours" min="0" step="0.5" value="{{.DefaultHours}}">
  </label>
  <button type="submit">Calculate</button>
</form>

<div id="results" class="results">
  <div class="card">
    <h3>&#9729;&#65039; Cloud</h3>
    <div>Energy Cost: <span id="cloud-energy"></span></div>
    <div>Compute Cost: <span id="cloud-compute"></span></div>
    <div class="total">Total: <span id="cloud-total"></span></div>
    <div class="detail">Energy: <span id="cloud-kwh"></span> kWh</div>
  </div>
  <div class="card">
    <h3>&#128421; Local</h3>
    <div>Energy Cost: <span id="local-energy"></span></div>
    <div class="total">Total: <span id="local-total"></span></div>
    <div class="detail">Energy: <span id="local-kwh"></span> kWh</div>
  </div>
</div>
<div id="verdict" class="verdict"></div>
<div id="error" class="error"></div>

<script>
const usd = (v, dp = 2) => "$" + v.toFixed(dp);

async function loadBanner() {
  const el = document.getElementById("banner");
  try {
    const res = await fetch("/api/cheapest");
    const data = await res.json();
    if (!res.ok || !data.found) {
      el.className = "banner warn";
      el.textContent = "No GPUs available in the catalog.";
      return;
    }
    el.textContent = "🏆 Cheapest option (" + data.hours + " hour benchmark): " +
      data.label + " at " + usd(data.total_cost_usd, 4);
  } catch (e) {
    el.className = "banner warn";
    el.textContent = "Failed to load cheapest option.";
  }
}

document.getElementById("form").addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const errEl = document.getElementById("error");
  errEl.textContent = "";
  const body = {
    electricity_cost_usd: parseFloat(document.getElementById("electricity").value),
    gpu: document.getElementById("gpu").value,
    hours: parseFloat(document.getElementById("hours").value),
  };
  const res = await fetch("/api/estimate", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(body),
  });
  const data = await res.json();
  if (!res.ok) {
    document.getElementById("results").style.display = "none";
    document.getElementById("verdict").textContent = "";
    errEl.textContent = data.error ? data.error.message : "Request failed.";
    return;
  }
  document.getElementById("results").style.display = "grid";
  document.getElementById("cloud-energy").textContent = usd(data.cloud.energy_cost_usd);
  document.getElementById("cloud-compute").textContent = usd(data.cloud.compute_cost_usd || 0);
  document.getElementById("cloud-total").textContent = usd(data.cloud.total_cost_usd);
  document.getElementById("cloud-kwh").textContent = data.cloud.energy_kwh.toFixed(4);
  document.getElementById("local-energy").textContent = usd(data.local.energy_cost_usd);
  document.getElementById("local-total").textContent = usd(data.local.total_cost_usd);
  document.getElementById("local-kwh").textContent = data.local.energy_kwh.toFixed(4);
  const v = document.getElementById("verdict");
  if (data.verdict.cheaper === "equal") {
    v.textContent = "Both options cost the same for this workload.";
  } else {
    v.textContent = (data.verdict.cheaper === "cloud" ? "Cloud" : "Local") +
      " is cheaper for this workload. Save " + usd(data.verdict.savings_usd) + ".";
  }
});

loadBanner();
</script>
</body>
</html>
`
