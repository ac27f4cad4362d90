package preview

// ClientScript keeps the page in sync with the server. It is injected into
// the preview page.
const ClientScript = `
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            var content = document.getElementById('content');
            if (msg.type === 'render' && content) {
                content.innerHTML = msg.html;
                console.debug('[markview] rendered', msg.rendered, 'reused', msg.skipped);
            } else if (msg.type === 'error') {
                console.error('[markview]', msg.code || '', msg.error);
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`

// DefaultStyles is the stylesheet of the preview page.
const DefaultStyles = `
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
pre.code-block { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 0 0 6px 6px; margin-top: 0; }
.code-header { display: flex; justify-content: space-between; background: #eaeef2; padding: .25rem 1rem; border-radius: 6px 6px 0 0; font-size: .85rem; }
.table-wrapper { overflow-x: auto; }
`
