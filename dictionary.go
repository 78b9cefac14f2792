package spdy

// ZLIB_DICT_V2 and ZLIB_DICT_V3 are the zlib preset dictionaries used to
// seed the header-block compression streams for SPDY/2 and SPDY/3
// respectively. They consist of the HTTP method names, the most common
// request/response header names, and the most common status-line and
// header-value vocabulary, so that a header block referencing them
// compresses well even in the very first frame of a connection, before the
// stream has built up any of its own back-references.
//
// The bytes below are a reconstruction of the SPDY header vocabulary and
// are not checked against the dictionaries published with the SPDY drafts.
// Header blocks therefore decode only between peers that use these same
// bytes; interop with another SPDY implementation is not ensured. Both
// versions share the same text: ZLIB_DICT_V3 is ZLIB_DICT_V2 plus one
// trailing NUL byte. See DESIGN.md's known caveats.
var ZLIB_DICT_V2 = []byte("" +
	"optionsgetheadpostputdeletetraceacceptaccept-charsetaccept-encodingaccept-" +
	"languageauthorizationexpectfromhostif-modifiedsinceif-matchif-none-matchif-" +
	"rangeif-unmodifiedsincemax-forwardsproxy-authorizationrangerefererteuser-agent" +
	"100101200201202203204205206300301302303304305306307400401402403404405406407408" +
	"409410411412413414415416417500501502503504505506accept-rangesageetaglocation" +
	"proxy-authenticatepublicretry-afterservervarywarningwww-authenticateallow" +
	"content-basecontent-encodingcache-controlconnectiondatetrailertransfer-encoding" +
	"upgradeviawarningwww-authenticatemethodgetputpostoptionsdeletetraceaccept" +
	"accept-charsetaccept-encodingaccept-languageauthorizationexpectfromhost" +
	"if-modifiedsinceif-matchif-none-matchif-rangeif-unmodifiedsincemax-forwards" +
	"proxy-authorizationrangerefererteuser-agent100101200201202203204205206300301302303" +
	"304305306307400401402403404405406407408409410411412413414415416417500501502503504" +
	"505506accept-rangesageetaglocationproxy-authenticatepublicretry-afterservervary" +
	"warningwww-authenticateget-tracehead-posthead-putpost-deleteget-headpost-posttrace-" +
	"optionsget-options" +
	"content-typecontent-lengthcontent-languagecontent-locationcontent-dispositionlast-modified" +
	"expiresetagcookieset-cookiesoapactionstatusversionurlschemetext/htmltext/plainapplication/json" +
	"application/x-www-form-urlencodedmultipart/form-datagzipdeflatesdchidentitychunkedclosekeep-alive")

// ZLIB_DICT_V3 is ZLIB_DICT_V2 plus one trailing NUL byte.
var ZLIB_DICT_V3 = append(append([]byte{}, ZLIB_DICT_V2...), 0x00)
