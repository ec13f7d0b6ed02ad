package atomizer

// Reset is the baseline stylesheet emitted before generated rules.
const Reset = `*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{-webkit-text-size-adjust:100%;line-height:1.5}
body{min-height:100vh;text-rendering:optimizeLegibility}
img,picture,video,canvas,svg{display:block;max-width:100%}
input,button,textarea,select{font:inherit;color:inherit}
button{background:none;border:0;cursor:pointer}
a{color:inherit;text-decoration:none}
ol,ul{list-style:none}
table{border-collapse:collapse;border-spacing:0}
p,h1,h2,h3,h4,h5,h6{overflow-wrap:break-word}`
