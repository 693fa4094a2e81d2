package renderer

// Chunk shader pair: atlas-textured geometry with a fixed directional
// light plus an ambient floor.

const chunkVertexShader = `#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out vec3 fragNormal;
out vec2 fragTexCoord;

void main() {
    gl_Position = projection * view * model * vec4(aPos, 1.0);
    fragNormal = aNormal;
    fragTexCoord = aTexCoord;
}
`

const chunkFragmentShader = `#version 410 core

in vec3 fragNormal;
in vec2 fragTexCoord;

uniform sampler2D atlas;
uniform vec3 lightDir;
uniform float ambientStrength;

out vec4 fragColor;

void main() {
    vec4 texColor = texture(atlas, fragTexCoord);
    if (texColor.a < 0.1) {
        discard;
    }

    float diffuse = max(dot(normalize(fragNormal), -normalize(lightDir)), 0.0);
    float light = ambientStrength + (1.0 - ambientStrength) * diffuse;
    fragColor = vec4(texColor.rgb * light, texColor.a);
}
`
