package console

import (
	"html/template"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
)

type pageData struct {
	Form harness.Form
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">
<title>PII Shield Test Console</title>
<style>
body{margin:0;font:14px/1.4 ui-sans-serif,system-ui,sans-serif;background:#f4f6f8;color:#1f2937}
.top{padding:12px 16px;background:#0f172a;color:#fff;display:flex;gap:16px;align-items:center}
.wrap{display:grid;grid-template-columns:380px 1fr;gap:16px;padding:16px}
.card{background:#fff;border:1px solid #dbe1e8;border-radius:10px;padding:12px 14px;margin-bottom:16px}
label{display:block;margin:8px 0 4px;font-weight:600}
input[type=text],input[type=password],textarea{width:100%;box-sizing:border-box;padding:6px 8px;border:1px solid #cbd5e1;border-radius:6px;font:inherit}
textarea{min-height:90px}
button{padding:6px 14px;border-radius:6px;border:1px solid #1e293b;background:#1e293b;color:#fff;cursor:pointer}
button:disabled{opacity:.5;cursor:default}
.hint{color:#64748b}
.status.error{color:#b91c1c}
pre{white-space:pre-wrap;word-break:break-word;background:#0b1020;color:#dbeafe;padding:12px;border-radius:10px;overflow:auto;min-height:2em}
</style></head>
<body>
<div class="top"><strong>PII Shield Test Console</strong><span id="conn" class="hint">connecting...</span></div>
<div class="wrap">
<div>
 <div class="card">
  <label for="apiBase">API base URL</label>
  <input id="apiBase" type="text" value="{{.Form.BaseURL}}">
  <label for="adminKey">Admin key</label>
  <input id="adminKey" type="password" value="{{.Form.AdminKey}}">
  <div style="margin-top:10px"><button id="checkHealth">Check API</button> <span id="apiStatus" class="hint">Unknown</span></div>
 </div>
 <div class="card">
  <label for="model">Model</label>
  <input id="model" type="text" value="{{.Form.Model}}">
  <label for="system">System prompt</label>
  <textarea id="system">{{.Form.SystemPrompt}}</textarea>
  <label for="prompt">User message</label>
  <textarea id="prompt">{{.Form.UserPrompt}}</textarea>
  <label><input id="showPayload" type="checkbox"{{if .Form.ShowPayload}} checked{{end}}> Show outgoing payload</label>
  <div style="margin-top:10px"><button id="sendBtn">Send request</button></div>
  <p id="status" class="hint status"></p>
 </div>
</div>
<div>
 <div class="card"><strong>Assistant reply</strong><pre id="responseText"></pre></div>
 <div class="card"><strong>Raw response</strong><pre id="responseBox"></pre></div>
 <div class="card"><strong>Headers</strong><pre id="headersBox"></pre></div>
 <div class="card"><strong>Payload</strong><pre id="payloadBox"></pre></div>
 <div class="card"><strong>Stats</strong> <button id="refreshStats">Refresh</button><pre id="statsBox"></pre></div>
</div>
</div>
<script>
const byId=id=>document.getElementById(id);
const wsURL=(location.protocol==='https:'?'wss://':'ws://')+location.host+'/ws';
let ws;
function form(){
 return {
  baseUrl: byId('apiBase').value,
  adminKey: byId('adminKey').value,
  model: byId('model').value,
  system: byId('system').value,
  prompt: byId('prompt').value,
  showPayload: byId('showPayload').checked
 };
}
function act(action){
 if(!ws||ws.readyState!==WebSocket.OPEN){ byId('conn').textContent='disconnected'; return; }
 ws.send(JSON.stringify({action:action, form:form()}));
}
function apply(f){
 switch(f.type){
 case 'panel': { const el=byId(f.panel); if(el) el.textContent=f.text; break; }
 case 'status': byId('status').textContent=f.text; byId('status').className='hint status'+(f.error?' error':''); break;
 case 'trigger': byId('sendBtn').disabled=!!f.disabled; byId('sendBtn').textContent=f.label; break;
 }
}
function connect(){
 ws=new WebSocket(wsURL);
 ws.onopen=()=>{ byId('conn').textContent='connected'; };
 ws.onclose=()=>{ byId('conn').textContent='disconnected'; byId('sendBtn').disabled=false; byId('sendBtn').textContent='Send request'; setTimeout(connect,2000); };
 ws.onmessage=ev=>{ try{ apply(JSON.parse(ev.data)); }catch(e){ console.error(e); } };
}
byId('checkHealth').addEventListener('click',()=>act('health'));
byId('sendBtn').addEventListener('click',()=>act('send'));
byId('refreshStats').addEventListener('click',()=>act('stats'));
connect();
</script>
</body></html>`))
