// Package preview serves a live preview of a rendered document.
//
// Each WebSocket connection owns a memoizing document renderer. Clients send
// a full snapshot once and then RFC 6902 patches against it; every reply
// carries the rendered HTML and how many components were re-rendered or
// reused:
//
//	-> {"type":"snapshot","doc":{"type":"root","children":[...]}}
//	<- {"type":"render","html":"<h1>...","rendered":12,"skipped":0}
//	-> {"type":"patch","patch":[{"op":"replace","path":"/children/3/children/0/value","value":"new"}]}
//	<- {"type":"render","html":"<h1>...","rendered":1,"skipped":11}
//
// Errors are reported as {"type":"error","code":"E131","error":"..."} and
// leave the previous snapshot in place.
//
// The server also exposes POST /render for one-shot rendering, /metrics and
// /healthz.
package preview
