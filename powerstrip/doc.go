/*
Package powerstrip implements the HTTP side of the Powerstrip hook protocol.

Powerstrip is a proxy in front of the Docker engine API that passes requests
and responses of interest to hook adapters: it POSTs a JSON envelope of type
"pre-hook" with the client's request before forwarding it to the engine, and
an envelope of type "post-hook" with both the client's request and the
engine's response afterwards. Adapters answer with the (possibly modified)
request or response, respectively.

	{"Type": "post-hook",
	 "ClientRequest": {"Method": "POST", "Request": "/v1.16/containers/abc/start", "Body": "..."},
	 "ServerResponse": {"ContentType": "text/plain", "Body": "", "Code": 204}}

	{"PowerstripProtocolVersion": 1,
	 "ModifiedServerResponse": {"ContentType": "text/plain", "Body": "", "Code": 204}}

Unmodified requests and responses are returned verbatim, including any fields
this package doesn't know about.
*/
package powerstrip
